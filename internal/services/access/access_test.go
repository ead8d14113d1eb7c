package access

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lromnav497/pardespue/internal/models"
)

var (
	creationDate = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	openingDate  = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	beforeOpen   = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	afterOpen    = time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
)

func newCapsule(privacy string) *models.Capsule {
	return &models.Capsule{
		ID:           1,
		Title:        "Verano 2024",
		CreationDate: creationDate,
		OpeningDate:  openingDate,
		Privacy:      privacy,
		CreatorUID:   "creator-uid",
	}
}

func TestCanRead(t *testing.T) {
	tests := []struct {
		name    string
		now     time.Time
		capsule *models.Capsule
		req     Requester
		wantErr error
	}{
		{
			name:    "pública sin abrir niega a cualquiera",
			now:     beforeOpen,
			capsule: newCapsule(models.PrivacyPublic),
			req:     Requester{UID: "other-uid"},
			wantErr: ErrNotYetOpen,
		},
		{
			name:    "sin abrir niega incluso al admin",
			now:     beforeOpen,
			capsule: newCapsule(models.PrivacyPublic),
			req:     Requester{UID: "admin-uid", SiteRole: models.SiteRoleAdmin},
			wantErr: ErrNotYetOpen,
		},
		{
			name:    "sin abrir admite al creador",
			now:     beforeOpen,
			capsule: newCapsule(models.PrivacyPrivate),
			req:     Requester{UID: "creator-uid"},
		},
		{
			name:    "pública abierta admite al anónimo",
			now:     afterOpen,
			capsule: newCapsule(models.PrivacyPublic),
			req:     Requester{},
		},
		{
			name:    "privada abierta niega al no creador",
			now:     afterOpen,
			capsule: newCapsule(models.PrivacyPrivate),
			req:     Requester{UID: "other-uid"},
			wantErr: ErrForbiddenPrivate,
		},
		{
			name:    "privada abierta admite al creador",
			now:     afterOpen,
			capsule: newCapsule(models.PrivacyPrivate),
			req:     Requester{UID: "creator-uid"},
		},
		{
			name:    "grupal abierta niega sin rol",
			now:     afterOpen,
			capsule: newCapsule(models.PrivacyGroup),
			req:     Requester{UID: "other-uid"},
			wantErr: ErrForbiddenGroup,
		},
		{
			name:    "grupal abierta admite al lector",
			now:     afterOpen,
			capsule: newCapsule(models.PrivacyGroup),
			req:     Requester{UID: "other-uid", RecipientRole: models.RoleReader},
		},
		{
			name:    "grupal abierta admite al admin",
			now:     afterOpen,
			capsule: newCapsule(models.PrivacyGroup),
			req:     Requester{UID: "admin-uid", SiteRole: models.SiteRoleAdmin},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanRead(tt.now, tt.capsule, tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCanRead_OpeningInstantCounts(t *testing.T) {
	// La apertura es inclusiva: en el instante exacto ya se puede leer.
	c := newCapsule(models.PrivacyPublic)
	assert.NoError(t, CanRead(openingDate, c, Requester{}))
}

func TestCanEdit(t *testing.T) {
	tests := []struct {
		name    string
		now     time.Time
		req     Requester
		wantErr error
	}{
		{
			name: "creador edita antes de abrir",
			now:  beforeOpen,
			req:  Requester{UID: "creator-uid"},
		},
		{
			name:    "creador no edita tras abrir",
			now:     afterOpen,
			req:     Requester{UID: "creator-uid"},
			wantErr: ErrAlreadyOpened,
		},
		{
			name: "colaborador premium edita antes de abrir",
			now:  beforeOpen,
			req:  Requester{UID: "collab-uid", RecipientRole: models.RoleCollaborator, Plan: models.PlanPremium},
		},
		{
			name:    "colaborador básico no edita",
			now:     beforeOpen,
			req:     Requester{UID: "collab-uid", RecipientRole: models.RoleCollaborator, Plan: models.PlanBasico},
			wantErr: ErrPlanInsufficient,
		},
		{
			name:    "lector no edita aunque sea premium",
			now:     beforeOpen,
			req:     Requester{UID: "reader-uid", RecipientRole: models.RoleReader, Plan: models.PlanPremium},
			wantErr: ErrNotCreator,
		},
		{
			name:    "tercero no edita",
			now:     beforeOpen,
			req:     Requester{UID: "other-uid"},
			wantErr: ErrNotCreator,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanEdit(tt.now, newCapsule(models.PrivacyGroup), tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCanDelete(t *testing.T) {
	c := newCapsule(models.PrivacyGroup)

	assert.NoError(t, CanDelete(c, Requester{UID: "creator-uid"}))
	assert.NoError(t, CanDelete(c, Requester{UID: "admin-uid", SiteRole: models.SiteRoleAdmin}))
	assert.ErrorIs(t, CanDelete(c, Requester{UID: "collab-uid", RecipientRole: models.RoleCollaborator, Plan: models.PlanPremium}), ErrNotCreator)
	assert.ErrorIs(t, CanDelete(c, Requester{}), ErrNotCreator)
}

func TestRequiresPasswordCheck(t *testing.T) {
	hash := "$2a$10$hash"
	withPassword := newCapsule(models.PrivacyPrivate)
	withPassword.PasswordHash = &hash

	// Sin contraseña guardada nunca hace falta confirmar.
	assert.False(t, RequiresPasswordCheck(newCapsule(models.PrivacyPrivate), models.PrivacyPublic, true))
	// Cambiar la contraseña exige confirmar la actual.
	assert.True(t, RequiresPasswordCheck(withPassword, models.PrivacyPrivate, true))
	// Rebajar la privacidad desde private exige confirmar.
	assert.True(t, RequiresPasswordCheck(withPassword, models.PrivacyGroup, false))
	// Seguir en private sin tocar la contraseña no exige nada.
	assert.False(t, RequiresPasswordCheck(withPassword, models.PrivacyPrivate, false))
}

func TestIsDenial(t *testing.T) {
	assert.True(t, IsDenial(ErrNotYetOpen))
	assert.True(t, IsDenial(ErrPlanInsufficient))
	assert.False(t, IsDenial(assert.AnError))
	assert.False(t, IsDenial(nil))
}
