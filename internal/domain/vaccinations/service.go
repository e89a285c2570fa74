package vaccinations

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"pet-vaccinations/internal/domain/pets"
	"pet-vaccinations/internal/platform/dates"
	"pet-vaccinations/internal/platform/logger"
	"pet-vaccinations/internal/platform/metrics"
	"pet-vaccinations/internal/platform/pagination"
)

// PetLookup es lo que este módulo necesita de pets (lo cumple *pets.Service).
type PetLookup interface {
	GetByID(ctx context.Context, id string) (pets.Pet, error)
}

// ExpirationNotifier agenda la notificación de un registro que pasó a vencido.
// Solo recibe el id: el dispatcher relee el registro al ejecutar.
type ExpirationNotifier interface {
	NotifyExpired(ctx context.Context, recordID string) error
}

type Options struct {
	Location         *time.Location
	ExpiringSoonDays int

	Notifier ExpirationNotifier
	Logger   logger.Logger
	Metrics  *metrics.Metrics
}

type Service struct {
	repo     Repository
	pets     PetLookup
	notifier ExpirationNotifier
	log      logger.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer

	loc    *time.Location
	window int
	now    func() time.Time
}

func NewService(repo Repository, petLookup PetLookup, opts Options) *Service {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.ExpiringSoonDays <= 0 {
		opts.ExpiringSoonDays = DefaultExpiringSoonDays
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	return &Service{
		repo:     repo,
		pets:     petLookup,
		notifier: opts.Notifier,
		log:      opts.Logger.With(map[string]any{"component": "vaccinations"}),
		metrics:  opts.Metrics,
		tracer:   otel.Tracer("pet-vaccinations/vaccinations"),
		loc:      opts.Location,
		window:   opts.ExpiringSoonDays,
		now:      time.Now,
	}
}

// Input: punteros para PATCH real, nil = no tocar.
// Expired solo se aplica si el caller lo manda explícitamente.
type Input struct {
	Name            *string
	VaccinationDate *time.Time
	ExpiryDate      *time.Time
	Expired         *bool
}

type Page struct {
	Items []Record
	Meta  pagination.Meta
}

// Today es la fecha calendario actual en la zona horaria de la app.
func (s *Service) Today() time.Time {
	return dates.Today(s.now(), s.loc)
}

func (s *Service) ExpiringSoonDays() int { return s.window }

func (s *Service) Create(ctx context.Context, petID string, in Input) (Record, error) {
	if _, err := s.pets.GetByID(ctx, petID); err != nil {
		return Record{}, err
	}

	name := ""
	if in.Name != nil {
		name = *in.Name
	}
	if err := validate(name, in.VaccinationDate, in.ExpiryDate); err != nil {
		return Record{}, err
	}

	now := s.now().UTC()
	r := Record{
		ID:              uuid.NewString(),
		PetID:           petID,
		Name:            strings.TrimSpace(name),
		VaccinationDate: dates.On(*in.VaccinationDate),
		ExpiryDate:      dates.On(*in.ExpiryDate),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if in.Expired != nil {
		r.Expired = *in.Expired
	}
	r = Normalize(r, s.Today())

	if err := s.repo.Create(ctx, r); err != nil {
		return Record{}, err
	}
	if r.Expired {
		s.expired(ctx, r.ID, metrics.TriggerWrite)
	}
	return r, nil
}

func (s *Service) Update(ctx context.Context, petID, id string, in Input) (Record, error) {
	prev, err := s.Get(ctx, petID, id)
	if err != nil {
		return Record{}, err
	}

	r := prev
	if in.Name != nil {
		r.Name = *in.Name
	}
	if in.VaccinationDate != nil {
		r.VaccinationDate = dates.On(*in.VaccinationDate)
	}
	if in.ExpiryDate != nil {
		r.ExpiryDate = dates.On(*in.ExpiryDate)
	}
	if in.Expired != nil {
		r.Expired = *in.Expired
	}

	if err := validate(r.Name, &r.VaccinationDate, &r.ExpiryDate); err != nil {
		return Record{}, err
	}
	r.Name = strings.TrimSpace(r.Name)
	r.UpdatedAt = s.now().UTC()
	r = Normalize(r, s.Today())

	// prev puede estar viejo si un sweep o mark_as_expired corrió en el medio:
	// la transición la decide lo que había guardado al escribir.
	stored, wasExpired, err := s.repo.Update(ctx, r, in.Expired == nil)
	if err != nil {
		return Record{}, err
	}
	if !wasExpired && stored.Expired {
		s.expired(ctx, stored.ID, metrics.TriggerWrite)
	}
	return stored, nil
}

// Get busca el registro dentro de la mascota: 404 si la mascota o el registro no existen.
func (s *Service) Get(ctx context.Context, petID, id string) (Record, error) {
	if _, err := s.pets.GetByID(ctx, petID); err != nil {
		return Record{}, err
	}
	return s.repo.GetForPet(ctx, petID, id)
}

func (s *Service) Delete(ctx context.Context, petID, id string) error {
	if _, err := s.pets.GetByID(ctx, petID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, petID, id)
}

func (s *Service) List(ctx context.Context, petID string, q ListQuery) (Page, error) {
	if _, err := s.pets.GetByID(ctx, petID); err != nil {
		return Page{}, err
	}

	q.Today = s.Today()
	q.Page = pagination.New(q.Page.Page, q.Page.PerPage)
	if q.Sort.Field == "" {
		q.Sort = DefaultSort
	}

	items, total, err := s.repo.ListByPet(ctx, petID, q)
	if err != nil {
		return Page{}, err
	}
	return Page{Items: items, Meta: pagination.NewMeta(q.Page, total)}, nil
}

// MarkAsExpired falla con ErrAlreadyExpired si ya estaba vencido; el repo hace el chequeo de forma atómica.
func (s *Service) MarkAsExpired(ctx context.Context, petID, id string) (Record, error) {
	ctx, span := s.tracer.Start(ctx, "vaccinations.MarkAsExpired",
		trace.WithAttributes(attribute.String("vaccination_record.id", id)))
	defer span.End()

	current, err := s.Get(ctx, petID, id)
	if err != nil {
		return Record{}, err
	}
	if current.Expired {
		return Record{}, ErrAlreadyExpired
	}

	r, err := s.repo.MarkExpired(ctx, id, s.now().UTC())
	if err != nil {
		span.RecordError(err)
		return Record{}, err
	}

	s.expired(ctx, r.ID, metrics.TriggerManual)
	return r, nil
}

// MarkExpiredRecords es el sweep: un UPDATE en bloque, idempotente para el mismo día.
// Un fallo al agendar una notificación no aborta las demás.
func (s *Service) MarkExpiredRecords(ctx context.Context) (int, error) {
	ctx, span := s.tracer.Start(ctx, "vaccinations.MarkExpiredRecords")
	defer span.End()

	start := s.now()
	today := s.Today()

	ids, err := s.repo.MarkExpiredBefore(ctx, today, start.UTC())
	s.metrics.ObserveSweep(s.now().Sub(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "sweep failed")
		return 0, err
	}

	for _, id := range ids {
		s.expired(ctx, id, metrics.TriggerSweep)
	}

	span.SetAttributes(attribute.Int("vaccination_records.expired", len(ids)))
	s.log.Info("expired vaccinations marked", map[string]any{
		"count": len(ids),
		"today": dates.Format(today),
	})
	return len(ids), nil
}

// Overviews implementa pets.OverviewProvider con una sola consulta de registros.
func (s *Service) Overviews(ctx context.Context, petIDs []string) (map[string]pets.Overview, error) {
	byPet, err := s.repo.ListByPets(ctx, petIDs)
	if err != nil {
		return nil, err
	}

	today := s.Today()
	out := make(map[string]pets.Overview, len(petIDs))
	for _, id := range petIDs {
		out[id] = BuildOverview(byPet[id], today, s.window)
	}
	return out, nil
}

// expired agenda la notificación de la transición false -> true. No bloquea ni falla la escritura.
func (s *Service) expired(ctx context.Context, recordID, trigger string) {
	s.metrics.AddRecordsExpired(trigger, 1)
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyExpired(ctx, recordID); err != nil {
		s.log.Error("schedule expiration notification failed", map[string]any{
			"vaccination_record_id": recordID,
			"trigger":               trigger,
			"err":                   err.Error(),
		})
	}
}
