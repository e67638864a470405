package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"partnerhub/internal/model"
)

// MemoryRepository is the in-memory adapter of Repository. It backs the test
// suite and keeps exactly the same contract as the postgres adapter, including
// the conditional cancel and the unlink-before-delete behavior for offers.
type MemoryRepository struct {
	mu sync.Mutex

	nextID        int64
	users         map[int64]*model.User
	partners      map[int64]*model.BusinessPartner
	events        map[int64]*model.Event
	offers        map[int64]*model.Offer
	registrations map[int64]*model.Registration
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:         make(map[int64]*model.User),
		partners:      make(map[int64]*model.BusinessPartner),
		events:        make(map[int64]*model.Event),
		offers:        make(map[int64]*model.Offer),
		registrations: make(map[int64]*model.Registration),
	}
}

func (m *MemoryRepository) nextSeq() int64 {
	m.nextID++
	return m.nextID
}

func (m *MemoryRepository) CreateUser(_ context.Context, u *model.User) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.Email == u.Email {
			return 0, ErrDuplicateEmail
		}
	}
	cp := *u
	cp.ID = m.nextSeq()
	cp.CreatedAt = time.Now()
	m.users[cp.ID] = &cp
	return cp.ID, nil
}

func (m *MemoryRepository) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *MemoryRepository) GetUserByID(_ context.Context, id int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MemoryRepository) CreatePartner(_ context.Context, p *model.BusinessPartner) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *p
	cp.ID = m.nextSeq()
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	m.partners[cp.ID] = &cp
	return cp.ID, nil
}

func (m *MemoryRepository) GetPartnerByID(_ context.Context, id int64) (*model.BusinessPartner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.partners[id]
	if !ok {
		return nil, ErrPartnerNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MemoryRepository) GetPartnerByUserID(_ context.Context, userID int64) (*model.BusinessPartner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.partners {
		if p.UserID == userID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrPartnerNotFound
}

func (m *MemoryRepository) UpdatePartner(_ context.Context, p *model.BusinessPartner) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.partners[p.ID]
	if !ok {
		return ErrPartnerNotFound
	}
	stored.Name = p.Name
	stored.ContactMail = p.ContactMail
	stored.Phone = p.Phone
	stored.City = p.City
	stored.About = p.About
	stored.Interests = p.Interests
	stored.UpdatedAt = time.Now()
	return nil
}

func (m *MemoryRepository) CreateEvent(_ context.Context, e *model.Event) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *e
	cp.ID = m.nextSeq()
	cp.Status = model.EventStatusActive
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	m.events[cp.ID] = &cp
	return cp.ID, nil
}

func (m *MemoryRepository) GetEventByID(_ context.Context, id int64) (*model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.events[id]
	if !ok {
		return nil, ErrEventNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *MemoryRepository) collectEvents(match func(*model.Event) bool) []model.Event {
	var events []model.Event
	for _, e := range m.events {
		if match(e) {
			events = append(events, *e)
		}
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].StartDate.Before(events[j].StartDate)
	})
	return events
}

func (m *MemoryRepository) GetEventsByPartner(_ context.Context, partnerID int64) ([]model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.collectEvents(func(e *model.Event) bool { return e.PartnerID == partnerID }), nil
}

func (m *MemoryRepository) GetEventsByOffer(_ context.Context, offerID int64) ([]model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.collectEvents(func(e *model.Event) bool {
		return e.OfferID != nil && *e.OfferID == offerID
	}), nil
}

func (m *MemoryRepository) UpdateEvent(_ context.Context, e *model.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.events[e.ID]
	if !ok {
		return ErrEventNotFound
	}
	stored.Name = e.Name
	stored.Description = e.Description
	stored.BannerURL = e.BannerURL
	stored.StartDate = e.StartDate
	stored.EndDate = e.EndDate
	stored.Capacity = e.Capacity
	stored.Price = e.Price
	stored.Currency = e.Currency
	stored.DraftMode = e.DraftMode
	stored.OfferID = e.OfferID
	stored.UpdatedAt = time.Now()
	return nil
}

func (m *MemoryRepository) DeleteEvent(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.events[id]; !ok {
		return ErrEventNotFound
	}
	delete(m.events, id)
	for regID, reg := range m.registrations {
		if reg.EventID == id {
			delete(m.registrations, regID)
		}
	}
	return nil
}

func (m *MemoryRepository) CancelEvent(_ context.Context, id int64, reason string, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.events[id]
	if !ok || e.Status == model.EventStatusCancelled {
		return false, nil
	}
	e.Status = model.EventStatusCancelled
	e.CancellationReason = reason
	cancelledAt := now
	e.CancelledAt = &cancelledAt
	e.UpdatedAt = time.Now()
	return true, nil
}

func (m *MemoryRepository) PublishEvent(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.events[id]
	if !ok {
		return ErrEventNotFound
	}
	e.DraftMode = false
	e.UpdatedAt = time.Now()
	return nil
}

func (m *MemoryRepository) SetEventOffer(_ context.Context, eventID int64, offerID *int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.events[eventID]
	if !ok {
		return ErrEventNotFound
	}
	e.OfferID = offerID
	e.UpdatedAt = time.Now()
	return nil
}

func (m *MemoryRepository) LinkOfferToPartnerEvents(_ context.Context, offerID, partnerID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.events {
		if e.PartnerID == partnerID {
			id := offerID
			e.OfferID = &id
			e.UpdatedAt = time.Now()
		}
	}
	return nil
}

func (m *MemoryRepository) CreateOffer(_ context.Context, o *model.Offer) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *o
	cp.ID = m.nextSeq()
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	m.offers[cp.ID] = &cp
	return cp.ID, nil
}

func (m *MemoryRepository) GetOfferByID(_ context.Context, id int64) (*model.Offer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.offers[id]
	if !ok {
		return nil, ErrOfferNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *MemoryRepository) GetOffersByPartner(_ context.Context, partnerID int64) ([]model.Offer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var offers []model.Offer
	for _, o := range m.offers {
		if o.PartnerID == partnerID {
			offers = append(offers, *o)
		}
	}
	sort.Slice(offers, func(i, j int) bool {
		return offers[i].CreatedAt.After(offers[j].CreatedAt)
	})
	return offers, nil
}

func (m *MemoryRepository) UpdateOffer(_ context.Context, o *model.Offer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.offers[o.ID]
	if !ok {
		return ErrOfferNotFound
	}
	stored.Percentage = o.Percentage
	stored.Text = o.Text
	stored.StartDate = o.StartDate
	stored.ExpiryDate = o.ExpiryDate
	stored.UpdatedAt = time.Now()
	return nil
}

func (m *MemoryRepository) DeleteOffer(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.offers[id]; !ok {
		return ErrOfferNotFound
	}
	for _, e := range m.events {
		if e.OfferID != nil && *e.OfferID == id {
			e.OfferID = nil
			e.UpdatedAt = time.Now()
		}
	}
	delete(m.offers, id)
	return nil
}

func (m *MemoryRepository) CreateRegistration(_ context.Context, eventID, partnerID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.events[eventID]
	if !ok {
		return 0, ErrEventNotFound
	}

	count := 0
	for _, reg := range m.registrations {
		if reg.EventID == eventID {
			if reg.PartnerID == partnerID {
				return 0, ErrDuplicateRegistration
			}
			count++
		}
	}
	if count >= e.Capacity {
		return 0, ErrEventFull
	}

	reg := &model.Registration{
		ID:        m.nextSeq(),
		EventID:   eventID,
		PartnerID: partnerID,
		CreatedAt: time.Now(),
	}
	m.registrations[reg.ID] = reg
	return reg.ID, nil
}

func (m *MemoryRepository) CountRegistrations(_ context.Context, eventID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, reg := range m.registrations {
		if reg.EventID == eventID {
			count++
		}
	}
	return count, nil
}

func (m *MemoryRepository) GetRegistrationsByEvent(_ context.Context, eventID int64) ([]model.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var regs []model.Registration
	for _, reg := range m.registrations {
		if reg.EventID == eventID {
			regs = append(regs, *reg)
		}
	}
	sort.Slice(regs, func(i, j int) bool {
		return regs[i].CreatedAt.Before(regs[j].CreatedAt)
	})
	return regs, nil
}

func (m *MemoryRepository) GetParticipantEmails(_ context.Context, eventID int64) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var emails []string
	for _, reg := range m.registrations {
		if reg.EventID != eventID {
			continue
		}
		p, ok := m.partners[reg.PartnerID]
		if !ok {
			continue
		}
		if p.ContactMail != "" {
			emails = append(emails, p.ContactMail)
			continue
		}
		if u, ok := m.users[p.UserID]; ok {
			emails = append(emails, u.Email)
		}
	}
	return emails, nil
}

func (m *MemoryRepository) GetRegistrationTimes(_ context.Context, partnerID int64, from time.Time) ([]time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var times []time.Time
	for _, reg := range m.registrations {
		e, ok := m.events[reg.EventID]
		if !ok || e.PartnerID != partnerID {
			continue
		}
		if reg.CreatedAt.Before(from) {
			continue
		}
		times = append(times, reg.CreatedAt)
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
	return times, nil
}

// SeedRegistrationAt backdates a registration, bypassing the capacity and
// duplicate checks. Test fixture only.
func (m *MemoryRepository) SeedRegistrationAt(eventID, partnerID int64, at time.Time) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	reg := &model.Registration{
		ID:        m.nextSeq(),
		EventID:   eventID,
		PartnerID: partnerID,
		CreatedAt: at,
	}
	m.registrations[reg.ID] = reg
	return reg.ID
}

func (m *MemoryRepository) MigrateUp(string) error   { return nil }
func (m *MemoryRepository) MigrateDown(string) error { return nil }
