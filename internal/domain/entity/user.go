package entity

import (
	"strings"
	"time"
)

// Role rol principal de un usuario. Lo emite el colaborador de autenticación.
type Role string

// Roles conocidos. ACCOUNT_MANAGER y COMPANY son alias aceptados de GESTOR_EMPRESAS y EMPRESA.
const (
	RoleSuperAdmin     Role = "SUPER_ADMIN"
	RoleAdmin          Role = "ADMIN"
	RoleAccountManager Role = "GESTOR_EMPRESAS"
	RoleCompany        Role = "EMPRESA"
)

// RoleClass clasificación cerrada de roles usada por las políticas.
type RoleClass int

const (
	RoleClassOther RoleClass = iota
	RoleClassSuperAdmin
	RoleClassAdmin
	RoleClassAccountManager
	RoleClassCompany
)

// ClassifyRole mapea el string de rol a su clase; lo desconocido es RoleClassOther.
func ClassifyRole(r Role) RoleClass {
	switch Role(strings.ToUpper(strings.TrimSpace(string(r)))) {
	case RoleSuperAdmin:
		return RoleClassSuperAdmin
	case RoleAdmin:
		return RoleClassAdmin
	case RoleAccountManager, "ACCOUNT_MANAGER":
		return RoleClassAccountManager
	case RoleCompany, "COMPANY":
		return RoleClassCompany
	default:
		return RoleClassOther
	}
}

// IsAdminClass ADMIN o SUPER_ADMIN.
func (c RoleClass) IsAdminClass() bool {
	return c == RoleClassAdmin || c == RoleClassSuperAdmin
}

// User usuario de la plataforma. Su ciclo de vida lo gestiona autenticación;
// este núcleo solo lee rol y empresa propia, y crea el dueño en la conversión.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano
	Name         string
	Role         Role
	CompanyID    *string // empresa propia (usuarios EMPRESA)
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Summary proyección mínima del usuario.
func (u *User) Summary() *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

// Actor identidad autenticada que ejecuta una operación.
type Actor struct {
	UserID string
	Role   Role
}

// SeesAllLeads ADMIN y SUPER_ADMIN ven todo el pipeline; los gestores solo lo asignado.
func (a Actor) SeesAllLeads() bool {
	return ClassifyRole(a.Role).IsAdminClass()
}

// CanSee informa si el actor puede ver el lead.
func (a Actor) CanSee(l *Lead) bool {
	if a.SeesAllLeads() {
		return true
	}
	return l.AssignedToID != nil && *l.AssignedToID == a.UserID
}

// CanSeeCompany los gestores solo ven las empresas que gestionan.
func (a Actor) CanSeeCompany(c *Company) bool {
	if a.SeesAllLeads() {
		return true
	}
	return c.AccountManagerID != nil && *c.AccountManagerID == a.UserID
}

// ScopeUserID id por el que filtrar listados; vacío si el actor ve todo.
func (a Actor) ScopeUserID() string {
	if a.SeesAllLeads() {
		return ""
	}
	return a.UserID
}
