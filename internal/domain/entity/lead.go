package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// LeadStatus estado del lead en el pipeline comercial. WON y LOST son terminales.
type LeadStatus string

const (
	LeadStatusNew         LeadStatus = "NEW"
	LeadStatusContacted   LeadStatus = "CONTACTED"
	LeadStatusNegotiation LeadStatus = "NEGOTIATION"
	LeadStatusWon         LeadStatus = "WON"
	LeadStatusLost        LeadStatus = "LOST"
)

// ParseLeadStatus normaliza a mayúsculas y valida contra el enum.
// "CONVERTED" se acepta como alias histórico de WON.
func ParseLeadStatus(s string) (LeadStatus, bool) {
	st := LeadStatus(strings.ToUpper(strings.TrimSpace(s)))
	if st == "CONVERTED" {
		return LeadStatusWon, true
	}
	switch st {
	case LeadStatusNew, LeadStatusContacted, LeadStatusNegotiation, LeadStatusWon, LeadStatusLost:
		return st, true
	}
	return "", false
}

// IsTerminal informa si el estado ya no avanza en el pipeline.
func (s LeadStatus) IsTerminal() bool {
	return s == LeadStatusWon || s == LeadStatusLost
}

// LeadPriority prioridad comercial del lead.
type LeadPriority string

const (
	PriorityLow    LeadPriority = "LOW"
	PriorityMedium LeadPriority = "MEDIUM"
	PriorityHigh   LeadPriority = "HIGH"
)

// ParseLeadPriority normaliza y valida la prioridad.
func ParseLeadPriority(s string) (LeadPriority, bool) {
	p := LeadPriority(strings.ToUpper(strings.TrimSpace(s)))
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, true
	}
	return "", false
}

// LeadSource canal de adquisición del lead.
type LeadSource string

const (
	SourceWebsite       LeadSource = "WEBSITE"
	SourceReferral      LeadSource = "REFERRAL"
	SourceSocialMedia   LeadSource = "SOCIAL_MEDIA"
	SourceEmailCampaign LeadSource = "EMAIL_CAMPAIGN"
	SourceColdCall      LeadSource = "COLD_CALL"
	SourceEvent         LeadSource = "EVENT"
	SourcePartner       LeadSource = "PARTNER"
	SourceOther         LeadSource = "OTHER"
)

// ParseLeadSource normaliza y valida el canal de adquisición.
func ParseLeadSource(s string) (LeadSource, bool) {
	src := LeadSource(strings.ToUpper(strings.TrimSpace(s)))
	switch src {
	case SourceWebsite, SourceReferral, SourceSocialMedia, SourceEmailCampaign,
		SourceColdCall, SourceEvent, SourcePartner, SourceOther:
		return src, true
	}
	return "", false
}

// Lead representa una empresa prospecto que aún no es cliente.
// ConvertedToCompanyID se fija únicamente en la conversión (status WON).
type Lead struct {
	ID                   string
	CompanyName          string
	TaxID                string
	Sector               string
	Website              string
	EmployeeCount        *int
	Source               LeadSource
	Priority             LeadPriority
	Status               LeadStatus
	EstimatedValue       decimal.Decimal
	AssignedToID         *string // gestor de cuenta; nil hasta asignar
	Notes                string
	ConvertedToCompanyID *string
	ConvertedAt          *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// IsConverted informa si el lead ya pasó por la conversión.
func (l *Lead) IsConverted() bool {
	return l.ConvertedToCompanyID != nil && *l.ConvertedToCompanyID != ""
}

// LastActivity devuelve la fecha más reciente entre la creación del lead y la última interacción.
func (l *Lead) LastActivity(interactions []Interaction) time.Time {
	last := l.CreatedAt
	for _, it := range interactions {
		if it.CreatedAt.After(last) {
			last = it.CreatedAt
		}
	}
	return last
}

// LeadWithActivity lead con su vista previa de interacciones recientes (más nueva primero).
type LeadWithActivity struct {
	Lead
	RecentInteractions []Interaction
}
