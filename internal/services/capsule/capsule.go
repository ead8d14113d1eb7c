// Package capsule contiene la lógica de negocio de las cápsulas:
// creación con límite de plan, lectura tras la puerta de acceso con
// contador de visualizaciones y caché, edición con transiciones de
// privacidad y borrado en cascada transaccional.
package capsule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lromnav497/pardespue/internal/lib/password"
	"github.com/lromnav497/pardespue/internal/models"
	"github.com/lromnav497/pardespue/internal/services/access"
	"github.com/lromnav497/pardespue/internal/storage/repository"
)

// Errores terminales propios del servicio, además de los de la puerta
// de acceso.
var (
	// ErrLimitReached el plan Básico ya no admite más cápsulas.
	ErrLimitReached = errors.New("capsule limit reached for plan")
	// ErrInvalidOpeningDate la fecha de apertura no es posterior al momento actual.
	ErrInvalidOpeningDate = errors.New("opening date must be in the future")
	// ErrPasswordNotAllowed solo las cápsulas privadas admiten contraseña.
	ErrPasswordNotAllowed = errors.New("only private capsules may have a password")
	// ErrNotFound la cápsula no existe.
	ErrNotFound = errors.New("capsule not found")
)

// Repository define los métodos de almacenamiento que usa el servicio.
type Repository interface {
	CreateCapsule(ctx context.Context, c models.Capsule) (int, error)
	ReadCapsule(ctx context.Context, id int) (*models.Capsule, error)
	UpdateCapsule(ctx context.Context, c models.Capsule, id int) (int, error)
	DeleteCapsule(ctx context.Context, id int) (int, error)
	ListCapsulesByUser(ctx context.Context, userUID string) ([]*models.Capsule, error)
	ListPublicCapsules(ctx context.Context, category, search *string, limit, offset int) ([]*models.CapsuleView, error)
	CountPublicCapsules(ctx context.Context, category, search *string) (int, error)
	IncrementViews(ctx context.Context, id int) error
	GetRecipientRole(ctx context.Context, userUID string, capsuleID int) (string, error)
	RemoveAllRecipientsByCapsule(ctx context.Context, capsuleID int) error
	GetCategoryByID(ctx context.Context, id int) (*models.Category, error)
}

// Cache describe la caché de cápsulas.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// PlanResolver resuelve el plan vigente y el límite de cápsulas.
type PlanResolver interface {
	GetPlan(ctx context.Context, userUID string) (string, error)
	CanCreateCapsule(ctx context.Context, userUID string) (*models.CreateCheck, error)
}

// Service implementa las operaciones de negocio sobre cápsulas.
type Service struct {
	repo  Repository
	cache Cache
	plans PlanResolver
	log   *slog.Logger
}

// New crea un Service con sus dependencias.
func New(repo Repository, cache Cache, plans PlanResolver, log *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, plans: plans, log: log}
}

// PublicPage es una página del listado público con su total de páginas.
type PublicPage struct {
	Items      []*models.CapsuleView `json:"items"`
	Page       int                   `json:"page"`
	TotalPages int                   `json:"total_pages"`
}

// Requester construye el solicitante de la puerta de acceso para un
// usuario y una cápsula. El rol por cápsula y el plan se resuelven aquí
// para que la puerta siga siendo pura.
func (s *Service) Requester(ctx context.Context, userUID, siteRole string, capsuleID int) (access.Requester, error) {
	req := access.Requester{UID: userUID, SiteRole: siteRole}
	if userUID == "" {
		return req, nil
	}

	role, err := s.repo.GetRecipientRole(ctx, userUID, capsuleID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return req, err
	}
	req.RecipientRole = role

	planName, err := s.plans.GetPlan(ctx, userUID)
	if err != nil {
		return req, err
	}
	req.Plan = planName
	return req, nil
}

// Create da de alta una cápsula para el usuario tras comprobar el techo
// de su plan. La fecha de apertura debe ser estrictamente posterior al
// momento de creación y solo las cápsulas privadas admiten contraseña,
// que se guarda como hash bcrypt.
func (s *Service) Create(ctx context.Context, userUID string, req models.DummyCapsule) (int, error) {
	check, err := s.plans.CanCreateCapsule(ctx, userUID)
	if err != nil {
		return 0, err
	}
	if !check.Allowed {
		return 0, fmt.Errorf("%w: %s", ErrLimitReached, check.Reason)
	}

	openingDate, err := time.Parse(time.RFC3339, req.OpeningDate)
	if err != nil {
		return 0, fmt.Errorf("invalid opening date: %w", err)
	}
	now := time.Now().UTC()
	if !openingDate.After(now) {
		return 0, ErrInvalidOpeningDate
	}

	if req.Password != "" && req.Privacy != models.PrivacyPrivate {
		return 0, ErrPasswordNotAllowed
	}

	if _, err := s.repo.GetCategoryByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, fmt.Errorf("unknown category %d: %w", req.CategoryID, err)
		}
		return 0, err
	}

	var passwordHash *string
	if req.Password != "" {
		hash, err := password.GetHash(req.Password)
		if err != nil {
			return 0, err
		}
		passwordHash = &hash
	}

	c := models.Capsule{
		Title:          req.Title,
		Description:    req.Description,
		CreationDate:   now,
		OpeningDate:    openingDate,
		Privacy:        req.Privacy,
		PasswordHash:   passwordHash,
		CreatorUID:     userUID,
		Tags:           req.Tags,
		CategoryID:     req.CategoryID,
		CoverContentID: req.CoverContentID,
	}

	id, err := s.repo.CreateCapsule(ctx, c)
	if err != nil {
		return 0, err
	}
	s.log.Info("created capsule", slog.Int("id", id), slog.String("creator", userUID))
	return id, nil
}

// Get devuelve una cápsula si la puerta de acceso admite al
// solicitante. Una lectura admitida de cápsula abierta suma una
// visualización. La fila se cachea por ID; la puerta se evalúa en cada
// petición.
func (s *Service) Get(ctx context.Context, id int, userUID, siteRole string) (*models.Capsule, error) {
	c, err := s.read(ctx, id)
	if err != nil {
		return nil, err
	}

	req, err := s.Requester(ctx, userUID, siteRole, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := access.CanRead(now, c, req); err != nil {
		return nil, err
	}

	if c.Opened(now) {
		if err := s.repo.IncrementViews(ctx, id); err != nil {
			s.log.Warn("failed to increment views", slog.Int("id", id), slog.Any("err", err))
		} else {
			c.Views++
			s.cacheSet(id, c)
		}
	}
	return c, nil
}

// CheckPassword comprueba la contraseña de una cápsula privada. Es la
// puerta independiente que respalda las mutaciones sensibles.
func (s *Service) CheckPassword(ctx context.Context, id int, rawPassword string) error {
	c, err := s.read(ctx, id)
	if err != nil {
		return err
	}
	if c.PasswordHash == nil {
		return access.ErrWrongPassword
	}
	if err := password.CompareHash(*c.PasswordHash, rawPassword); err != nil {
		return access.ErrWrongPassword
	}
	return nil
}

// Update modifica una cápsula tras pasar la puerta de edición. Aplica
// las transiciones de privacidad: al salir de private se limpia la
// contraseña, al salir de group se eliminan todos los destinatarios, y
// las mutaciones sensibles exigen confirmar la contraseña actual.
func (s *Service) Update(ctx context.Context, id int, userUID, siteRole string, req models.DummyCapsule, currentPassword string) error {
	c, err := s.read(ctx, id)
	if err != nil {
		return err
	}

	requester, err := s.Requester(ctx, userUID, siteRole, id)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	if err := access.CanEdit(now, c, requester); err != nil {
		return err
	}

	openingDate, err := time.Parse(time.RFC3339, req.OpeningDate)
	if err != nil {
		return fmt.Errorf("invalid opening date: %w", err)
	}
	if !openingDate.After(c.CreationDate) {
		return ErrInvalidOpeningDate
	}

	if req.Password != "" && req.Privacy != models.PrivacyPrivate {
		return ErrPasswordNotAllowed
	}

	passwordChanged := req.Password != ""
	if access.RequiresPasswordCheck(c, req.Privacy, passwordChanged) {
		if currentPassword == "" {
			return access.ErrPasswordRequired
		}
		if err := password.CompareHash(*c.PasswordHash, currentPassword); err != nil {
			return access.ErrWrongPassword
		}
	}

	updated := *c
	updated.Title = req.Title
	updated.Description = req.Description
	updated.OpeningDate = openingDate
	updated.Privacy = req.Privacy
	updated.Tags = req.Tags
	updated.CategoryID = req.CategoryID
	updated.CoverContentID = req.CoverContentID

	switch {
	case req.Privacy != models.PrivacyPrivate:
		// Salir de private siempre limpia la contraseña guardada.
		updated.PasswordHash = nil
	case passwordChanged:
		hash, err := password.GetHash(req.Password)
		if err != nil {
			return err
		}
		updated.PasswordHash = &hash
	}

	if c.Privacy == models.PrivacyGroup && req.Privacy != models.PrivacyGroup {
		if err := s.repo.RemoveAllRecipientsByCapsule(ctx, id); err != nil {
			return err
		}
	}

	if _, err := s.repo.UpdateCapsule(ctx, updated, id); err != nil {
		return err
	}
	s.cacheInvalidate(id)
	s.log.Info("updated capsule", slog.Int("id", id))
	return nil
}

// Delete borra una cápsula y todas sus filas dependientes en una única
// transacción si la puerta de borrado admite al solicitante.
func (s *Service) Delete(ctx context.Context, id int, userUID, siteRole string) error {
	c, err := s.read(ctx, id)
	if err != nil {
		return err
	}

	requester, err := s.Requester(ctx, userUID, siteRole, id)
	if err != nil {
		return err
	}
	if err := access.CanDelete(c, requester); err != nil {
		return err
	}

	if _, err := s.repo.DeleteCapsule(ctx, id); err != nil {
		return err
	}
	s.cacheInvalidate(id)
	s.log.Info("deleted capsule", slog.Int("id", id))
	return nil
}

// ListPublic devuelve una página del listado público de cápsulas
// abiertas con el total de páginas bajo el mismo filtro.
func (s *Service) ListPublic(ctx context.Context, page, pageSize int, category, search string) (*PublicPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	var categoryPtr, searchPtr *string
	if category != "" {
		categoryPtr = &category
	}
	if search != "" {
		searchPtr = &search
	}

	items, err := s.repo.ListPublicCapsules(ctx, categoryPtr, searchPtr, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.CountPublicCapsules(ctx, categoryPtr, searchPtr)
	if err != nil {
		return nil, err
	}

	totalPages := (total + pageSize - 1) / pageSize
	return &PublicPage{Items: items, Page: page, TotalPages: totalPages}, nil
}

// ListByUser devuelve las cápsulas del usuario, las más recientes primero.
func (s *Service) ListByUser(ctx context.Context, userUID string) ([]*models.Capsule, error) {
	return s.repo.ListCapsulesByUser(ctx, userUID)
}

// read lee una cápsula, pasando por la caché, y traduce la ausencia a
// ErrNotFound del servicio.
func (s *Service) read(ctx context.Context, id int) (*models.Capsule, error) {
	var cached *models.Capsule
	cacheKey := fmt.Sprintf("capsule:%d", id)
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("cache read failed", slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found && cached != nil {
		return cached, nil
	}

	c, err := s.repo.ReadCapsule(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.cacheSet(id, c)
	return c, nil
}

func (s *Service) cacheSet(id int, c *models.Capsule) {
	cacheKey := fmt.Sprintf("capsule:%d", id)
	if err := s.cache.Set(cacheKey, c, time.Hour); err != nil {
		s.log.Warn("failed to cache capsule", slog.String("key", cacheKey), slog.Any("err", err))
	}
}

func (s *Service) cacheInvalidate(id int) {
	cacheKey := fmt.Sprintf("capsule:%d", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate capsule cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
}
