// Package schedtest provides an in-memory schedule.Repository for tests.
// A single mutex plays the role of the database's day-scoped locking:
// transactions serialize, and state is snapshotted at transaction start so
// a failed transaction rolls back completely.
package schedtest

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	domain "github.com/garageworks/garage-scheduler/internal/domain/schedule"
	"github.com/garageworks/garage-scheduler/internal/models"
)

var ErrNotFound = errors.New("not found")

type state struct {
	days         map[string]*models.DayAvailability
	appointments map[uint]*models.Appointment
	clients      map[string]*models.Client

	nextDayID    uint
	nextApID     uint
	nextClientID uint
}

type MemoryRepository struct {
	mu sync.Mutex
	st state
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		st: state{
			days:         map[string]*models.DayAvailability{},
			appointments: map[uint]*models.Appointment{},
			clients:      map[string]*models.Client{},
		},
	}
}

func dayKey(date time.Time) string {
	return domain.DayOf(date).Format("2006-01-02")
}

// --------------------------------------------------
// Copies: getters hand out copies and writers store
// copies, mirroring database value semantics.
// --------------------------------------------------

func copyDay(d *models.DayAvailability) *models.DayAvailability {
	if d == nil {
		return nil
	}
	out := *d
	out.OfferedSlots = append(models.SlotList{}, d.OfferedSlots...)
	out.BookedSlots = append(models.SlotList{}, d.BookedSlots...)
	return &out
}

func copyAppointment(ap *models.Appointment) *models.Appointment {
	if ap == nil {
		return nil
	}
	out := *ap
	return &out
}

func (s *state) snapshot() state {
	snap := state{
		days:         make(map[string]*models.DayAvailability, len(s.days)),
		appointments: make(map[uint]*models.Appointment, len(s.appointments)),
		clients:      make(map[string]*models.Client, len(s.clients)),
		nextDayID:    s.nextDayID,
		nextApID:     s.nextApID,
		nextClientID: s.nextClientID,
	}
	for k, v := range s.days {
		snap.days[k] = copyDay(v)
	}
	for k, v := range s.appointments {
		snap.appointments[k] = copyAppointment(v)
	}
	for k, v := range s.clients {
		c := *v
		snap.clients[k] = &c
	}
	return snap
}

// --------------------------------------------------
// Transactions
// --------------------------------------------------

func (r *MemoryRepository) InTx(ctx context.Context, fn func(domain.Repository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := r.st.snapshot()

	if err := fn(&memTx{st: &r.st}); err != nil {
		r.st = snap
		return err
	}
	return nil
}

// --------------------------------------------------
// Locked (top-level) accessors
// --------------------------------------------------

func (r *MemoryRepository) GetDay(ctx context.Context, date time.Time) (*models.DayAvailability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return (&memTx{st: &r.st}).GetDay(ctx, date)
}

func (r *MemoryRepository) GetDaysInRange(ctx context.Context, start, end time.Time) ([]models.DayAvailability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return (&memTx{st: &r.st}).GetDaysInRange(ctx, start, end)
}

func (r *MemoryRepository) LockDay(ctx context.Context, date time.Time) (*models.DayAvailability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return (&memTx{st: &r.st}).LockDay(ctx, date)
}

func (r *MemoryRepository) SaveDay(ctx context.Context, day *models.DayAvailability) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return (&memTx{st: &r.st}).SaveDay(ctx, day)
}

func (r *MemoryRepository) DeleteDay(ctx context.Context, date time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return (&memTx{st: &r.st}).DeleteDay(ctx, date)
}

func (r *MemoryRepository) CreateAppointment(ctx context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return (&memTx{st: &r.st}).CreateAppointment(ctx, ap)
}

func (r *MemoryRepository) GetAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return (&memTx{st: &r.st}).GetAppointment(ctx, id)
}

func (r *MemoryRepository) GetAppointmentForUpdate(ctx context.Context, id uint) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return (&memTx{st: &r.st}).GetAppointmentForUpdate(ctx, id)
}

func (r *MemoryRepository) GetAppointmentByToken(ctx context.Context, token string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return (&memTx{st: &r.st}).GetAppointmentByToken(ctx, token)
}

func (r *MemoryRepository) UpdateAppointment(ctx context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return (&memTx{st: &r.st}).UpdateAppointment(ctx, ap)
}

func (r *MemoryRepository) ListAppointmentsForDay(ctx context.Context, date time.Time) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return (&memTx{st: &r.st}).ListAppointmentsForDay(ctx, date)
}

func (r *MemoryRepository) ListAppointmentsForRange(ctx context.Context, start, end time.Time) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return (&memTx{st: &r.st}).ListAppointmentsForRange(ctx, start, end)
}

func (r *MemoryRepository) ListActiveAppointmentsAt(ctx context.Context, date time.Time, slots []string) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return (&memTx{st: &r.st}).ListActiveAppointmentsAt(ctx, date, slots)
}

func (r *MemoryRepository) GetOrCreateClient(ctx context.Context, name, phone, email string) (*models.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return (&memTx{st: &r.st}).GetOrCreateClient(ctx, name, phone, email)
}

// --------------------------------------------------
// memTx: the unlocked implementation, valid only
// while the repository mutex is held
// --------------------------------------------------

type memTx struct {
	st *state
}

func (t *memTx) InTx(ctx context.Context, fn func(domain.Repository) error) error {
	// already inside the transaction
	return fn(t)
}

func (t *memTx) GetDay(ctx context.Context, date time.Time) (*models.DayAvailability, error) {
	return copyDay(t.st.days[dayKey(date)]), nil
}

func (t *memTx) GetDaysInRange(ctx context.Context, start, end time.Time) ([]models.DayAvailability, error) {
	s := domain.DayOf(start)
	e := domain.DayOf(end)

	var out []models.DayAvailability
	for _, day := range t.st.days {
		if !day.Date.Before(s) && !day.Date.After(e) {
			out = append(out, *copyDay(day))
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (t *memTx) LockDay(ctx context.Context, date time.Time) (*models.DayAvailability, error) {
	return copyDay(t.st.days[dayKey(date)]), nil
}

func (t *memTx) SaveDay(ctx context.Context, day *models.DayAvailability) error {
	if day.ID == 0 {
		t.st.nextDayID++
		day.ID = t.st.nextDayID
	}
	day.Date = domain.DayOf(day.Date)
	t.st.days[dayKey(day.Date)] = copyDay(day)
	return nil
}

func (t *memTx) DeleteDay(ctx context.Context, date time.Time) error {
	delete(t.st.days, dayKey(date))
	return nil
}

func (t *memTx) CreateAppointment(ctx context.Context, ap *models.Appointment) error {
	t.st.nextApID++
	ap.ID = t.st.nextApID
	ap.CreatedAt = time.Now()
	ap.UpdatedAt = ap.CreatedAt
	t.st.appointments[ap.ID] = copyAppointment(ap)
	return nil
}

func (t *memTx) GetAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	ap, ok := t.st.appointments[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyAppointment(ap), nil
}

func (t *memTx) GetAppointmentForUpdate(ctx context.Context, id uint) (*models.Appointment, error) {
	return t.GetAppointment(ctx, id)
}

func (t *memTx) GetAppointmentByToken(ctx context.Context, token string) (*models.Appointment, error) {
	for _, ap := range t.st.appointments {
		if ap.AccessToken == token {
			return copyAppointment(ap), nil
		}
	}
	return nil, ErrNotFound
}

func (t *memTx) UpdateAppointment(ctx context.Context, ap *models.Appointment) error {
	if _, ok := t.st.appointments[ap.ID]; !ok {
		return ErrNotFound
	}
	ap.UpdatedAt = time.Now()
	t.st.appointments[ap.ID] = copyAppointment(ap)
	return nil
}

func (t *memTx) clientByID(id uint) models.Client {
	for _, c := range t.st.clients {
		if c.ID == id {
			return *c
		}
	}
	return models.Client{}
}

func (t *memTx) ListAppointmentsForDay(ctx context.Context, date time.Time) ([]models.Appointment, error) {
	d := domain.DayOf(date)

	var out []models.Appointment
	for _, ap := range t.st.appointments {
		if ap.ScheduledDate.Equal(d) {
			cp := *copyAppointment(ap)
			cp.Client = t.clientByID(cp.ClientID)
			out = append(out, cp)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledTime < out[j].ScheduledTime })
	return out, nil
}

func (t *memTx) ListAppointmentsForRange(ctx context.Context, start, end time.Time) ([]models.Appointment, error) {
	s := domain.DayOf(start)
	e := domain.DayOf(end)

	var out []models.Appointment
	for _, ap := range t.st.appointments {
		if !ap.ScheduledDate.Before(s) && !ap.ScheduledDate.After(e) {
			cp := *copyAppointment(ap)
			cp.Client = t.clientByID(cp.ClientID)
			out = append(out, cp)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].ScheduledDate.Equal(out[j].ScheduledDate) {
			return out[i].ScheduledDate.Before(out[j].ScheduledDate)
		}
		return out[i].ScheduledTime < out[j].ScheduledTime
	})
	return out, nil
}

func (t *memTx) ListActiveAppointmentsAt(ctx context.Context, date time.Time, slots []string) ([]models.Appointment, error) {
	d := domain.DayOf(date)

	inSlots := func(s string) bool {
		for _, slot := range slots {
			if slot == s {
				return true
			}
		}
		return false
	}

	var out []models.Appointment
	for _, ap := range t.st.appointments {
		if !ap.ScheduledDate.Equal(d) || !inSlots(ap.ScheduledTime) {
			continue
		}
		if domain.IsTerminal(domain.Status(ap.Status)) {
			continue
		}
		out = append(out, *copyAppointment(ap))
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledTime < out[j].ScheduledTime })
	return out, nil
}

func (t *memTx) GetOrCreateClient(ctx context.Context, name, phone, email string) (*models.Client, error) {
	if c, ok := t.st.clients[phone]; ok {
		out := *c
		return &out, nil
	}

	t.st.nextClientID++
	c := &models.Client{
		ID:    t.st.nextClientID,
		Name:  name,
		Phone: phone,
		Email: email,
	}
	t.st.clients[phone] = c

	out := *c
	return &out, nil
}

// Compile-time checks
var (
	_ domain.Repository = (*MemoryRepository)(nil)
	_ domain.Repository = (*memTx)(nil)
)
