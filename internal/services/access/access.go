// Package access implementa la puerta de acceso de las cápsulas: la
// función de decisión que, dada una cápsula y un solicitante, admite o
// deniega la lectura, la edición y el borrado según la fecha de
// apertura, la privacidad, la propiedad, el rol por cápsula y el plan
// de suscripción.
//
// Todas las denegaciones son errores centinela terminales; nunca se
// reintentan y el handler las traduce a un estado HTTP y a un mensaje
// para el usuario.
package access

import (
	"errors"
	"time"

	"github.com/lromnav497/pardespue/internal/models"
)

// Motivos terminales de denegación.
var (
	// ErrNotYetOpen la cápsula todavía no alcanzó su fecha de apertura.
	ErrNotYetOpen = errors.New("capsule not yet open")
	// ErrForbiddenPrivate la cápsula es privada y el solicitante no es su creador.
	ErrForbiddenPrivate = errors.New("private capsule, creator only")
	// ErrForbiddenGroup la cápsula es grupal y el solicitante no es destinatario.
	ErrForbiddenGroup = errors.New("group capsule, recipients only")
	// ErrAlreadyOpened la cápsula ya se abrió y no admite más ediciones.
	ErrAlreadyOpened = errors.New("capsule already opened")
	// ErrNotCreator la operación está reservada al creador.
	ErrNotCreator = errors.New("creator only")
	// ErrPlanInsufficient el colaborador necesita el plan Premium para editar.
	ErrPlanInsufficient = errors.New("premium plan required")
	// ErrPasswordRequired la mutación sensible exige confirmar la contraseña actual.
	ErrPasswordRequired = errors.New("password confirmation required")
	// ErrWrongPassword la contraseña confirmada no coincide.
	ErrWrongPassword = errors.New("wrong capsule password")
)

// Requester describe al solicitante de una operación. RequesterUID
// vacío significa petición anónima. RecipientRole es el rol del
// solicitante en la cápsula concreta ("" si no es destinatario) y Plan
// su plan de suscripción vigente.
type Requester struct {
	UID           string
	SiteRole      string
	RecipientRole string
	Plan          string
}

// IsCreator indica si el solicitante es el creador de la cápsula.
func (r Requester) IsCreator(c *models.Capsule) bool {
	return r.UID != "" && r.UID == c.CreatorUID
}

// IsAdmin indica si el solicitante tiene rol de administrador del sitio.
func (r Requester) IsAdmin() bool {
	return r.SiteRole == models.SiteRoleAdmin
}

// CanRead decide si el solicitante puede leer el contenido de la
// cápsula en el instante now.
//
// Antes de la apertura solo el creador accede (en modo edición, no como
// cápsula abierta). Tras la apertura: las privadas son solo del
// creador, las grupales exigen ser destinatario y las públicas admiten
// a cualquiera, anónimos incluidos. El administrador del sitio lee
// cualquier cápsula ya abierta.
func CanRead(now time.Time, c *models.Capsule, req Requester) error {
	if !c.Opened(now) {
		if req.IsCreator(c) {
			return nil
		}
		return ErrNotYetOpen
	}

	switch c.Privacy {
	case models.PrivacyPrivate:
		if req.IsCreator(c) || req.IsAdmin() {
			return nil
		}
		return ErrForbiddenPrivate
	case models.PrivacyGroup:
		if req.IsCreator(c) || req.IsAdmin() || req.RecipientRole != "" {
			return nil
		}
		return ErrForbiddenGroup
	default: // public
		return nil
	}
}

// CanEdit decide si el solicitante puede modificar la cápsula en el
// instante now. Solo se edita antes de la apertura, y solo el creador
// o un colaborador con plan Premium.
func CanEdit(now time.Time, c *models.Capsule, req Requester) error {
	if c.Opened(now) {
		return ErrAlreadyOpened
	}
	if req.IsCreator(c) {
		return nil
	}
	if req.RecipientRole == models.RoleCollaborator {
		if req.Plan == models.PlanPremium {
			return nil
		}
		return ErrPlanInsufficient
	}
	return ErrNotCreator
}

// CanDelete decide si el solicitante puede borrar la cápsula. El
// creador puede siempre; el administrador del sitio también, como
// facultad de moderación.
func CanDelete(c *models.Capsule, req Requester) error {
	if req.IsCreator(c) || req.IsAdmin() {
		return nil
	}
	return ErrNotCreator
}

// RequiresPasswordCheck indica si la mutación descrita exige confirmar
// la contraseña actual de la cápsula: cambiarla, o rebajar la
// privacidad desde private, cuando hay contraseña guardada.
func RequiresPasswordCheck(c *models.Capsule, newPrivacy string, passwordChanged bool) bool {
	if c.PasswordHash == nil {
		return false
	}
	if passwordChanged {
		return true
	}
	return c.Privacy == models.PrivacyPrivate && newPrivacy != models.PrivacyPrivate
}

// IsDenial indica si err es uno de los motivos terminales de la puerta
// de acceso, frente a un fallo de infraestructura.
func IsDenial(err error) bool {
	for _, denial := range []error{
		ErrNotYetOpen, ErrForbiddenPrivate, ErrForbiddenGroup, ErrAlreadyOpened,
		ErrNotCreator, ErrPlanInsufficient, ErrPasswordRequired, ErrWrongPassword,
	} {
		if errors.Is(err, denial) {
			return true
		}
	}
	return false
}
