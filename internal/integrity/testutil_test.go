package integrity_test

import (
	"context"
	"sync"
	"time"

	"github.com/praetorlabs/praetor/internal/domain"
	"github.com/praetorlabs/praetor/internal/integrity"
)

// --- in-memory repositories shared across the engine tests ---

type fakeStaffRepo struct {
	mu           sync.Mutex
	staff        []*domain.Staff
	failAll      error
	failGuild    error // fails FindByGuild only
	guildCalls   int
	userIDCalls  int
	updateCalls  int
	updateErr    error
	updateErrFor int // fail the first N UpdateStatus calls
}

func (r *fakeStaffRepo) FindByGuild(_ context.Context, guildID string) ([]*domain.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.guildCalls++
	if r.failAll != nil {
		return nil, r.failAll
	}
	if r.failGuild != nil {
		return nil, r.failGuild
	}
	var out []*domain.Staff
	for _, s := range r.staff {
		if s.GuildID == guildID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeStaffRepo) FindByID(_ context.Context, id string) (*domain.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll != nil {
		return nil, r.failAll
	}
	for _, s := range r.staff {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeStaffRepo) FindByUserID(_ context.Context, guildID, userID string) (*domain.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.userIDCalls++
	if r.failAll != nil {
		return nil, r.failAll
	}
	for _, s := range r.staff {
		if s.GuildID == guildID && s.UserID == userID {
			return s, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeStaffRepo) UpdateStatus(_ context.Context, id string, status domain.StaffStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updateCalls++
	if r.updateErrFor >= r.updateCalls && r.updateErr != nil {
		return r.updateErr
	}
	for _, s := range r.staff {
		if s.ID == id {
			s.Status = status
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeCaseRepo struct {
	mu       sync.Mutex
	cases    []*domain.CaseFile
	failAll  error
	idCalls  int
	assigned map[string][]string // case ID -> users added via AddAssignedLawyer
}

func (r *fakeCaseRepo) FindByGuild(_ context.Context, guildID string) ([]*domain.CaseFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll != nil {
		return nil, r.failAll
	}
	var out []*domain.CaseFile
	for _, c := range r.cases {
		if c.GuildID == guildID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCaseRepo) FindByID(_ context.Context, id string) (*domain.CaseFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.idCalls++
	if r.failAll != nil {
		return nil, r.failAll
	}
	for _, c := range r.cases {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeCaseRepo) SetChannelID(_ context.Context, id, channelID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.cases {
		if c.ID == id {
			c.ChannelID = channelID
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeCaseRepo) SetLeadAttorney(_ context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.cases {
		if c.ID == id {
			c.LeadAttorneyID = userID
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeCaseRepo) AddAssignedLawyer(_ context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.cases {
		if c.ID == id {
			if !c.HasAssignedLawyer(userID) {
				c.AssignedLawyerIDs = append(c.AssignedLawyerIDs, userID)
			}
			if r.assigned == nil {
				r.assigned = make(map[string][]string)
			}
			r.assigned[id] = append(r.assigned[id], userID)
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeApplicationRepo struct {
	mu           sync.Mutex
	applications []*domain.Application
	failAll      error
}

func (r *fakeApplicationRepo) FindByGuild(_ context.Context, guildID string) ([]*domain.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll != nil {
		return nil, r.failAll
	}
	var out []*domain.Application
	for _, a := range r.applications {
		if a.GuildID == guildID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeApplicationRepo) FindByID(_ context.Context, id string) (*domain.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.applications {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeApplicationRepo) UpdateStatus(_ context.Context, id string, status domain.ApplicationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.applications {
		if a.ID == id {
			a.Status = status
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeJobRepo struct {
	mu      sync.Mutex
	jobs    []*domain.Job
	failAll error
	idCalls int
}

func (r *fakeJobRepo) FindByGuild(_ context.Context, guildID string) ([]*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll != nil {
		return nil, r.failAll
	}
	var out []*domain.Job
	for _, j := range r.jobs {
		if j.GuildID == guildID {
			out = append(out, j)
		}
	}
	return out, nil
}

func (r *fakeJobRepo) FindByID(_ context.Context, id string) (*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.idCalls++
	if r.failAll != nil {
		return nil, r.failAll
	}
	for _, j := range r.jobs {
		if j.ID == id {
			return j, nil
		}
	}
	return nil, domain.ErrNotFound
}

type fakeRetainerRepo struct {
	mu        sync.Mutex
	retainers []*domain.Retainer
	failAll   error
}

func (r *fakeRetainerRepo) FindByGuild(_ context.Context, guildID string) ([]*domain.Retainer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll != nil {
		return nil, r.failAll
	}
	var out []*domain.Retainer
	for _, ret := range r.retainers {
		if ret.GuildID == guildID {
			out = append(out, ret)
		}
	}
	return out, nil
}

func (r *fakeRetainerRepo) FindByID(_ context.Context, id string) (*domain.Retainer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ret := range r.retainers {
		if ret.ID == id {
			return ret, nil
		}
	}
	return nil, domain.ErrNotFound
}

type fakeFeedbackRepo struct {
	mu       sync.Mutex
	feedback []*domain.Feedback
	failAll  error
}

func (r *fakeFeedbackRepo) FindByGuild(_ context.Context, guildID string) ([]*domain.Feedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll != nil {
		return nil, r.failAll
	}
	var out []*domain.Feedback
	for _, f := range r.feedback {
		if f.GuildID == guildID {
			out = append(out, f)
		}
	}
	return out, nil
}

type fakeReminderRepo struct {
	mu        sync.Mutex
	reminders []*domain.Reminder
	failAll   error
}

func (r *fakeReminderRepo) FindByGuild(_ context.Context, guildID string) ([]*domain.Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll != nil {
		return nil, r.failAll
	}
	var out []*domain.Reminder
	for _, rem := range r.reminders {
		if rem.GuildID == guildID {
			out = append(out, rem)
		}
	}
	return out, nil
}

func (r *fakeReminderRepo) FindByID(_ context.Context, id string) (*domain.Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rem := range r.reminders {
		if rem.ID == id {
			return rem, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeReminderRepo) SetChannelID(_ context.Context, id, channelID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rem := range r.reminders {
		if rem.ID == id {
			rem.ChannelID = channelID
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeReminderRepo) Deactivate(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rem := range r.reminders {
		if rem.ID == id {
			rem.Active = false
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []*domain.AuditEntry
	failAll error
}

func (r *fakeAuditRepo) Record(_ context.Context, entry *domain.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll != nil {
		return r.failAll
	}
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeAuditRepo) ListByGuild(_ context.Context, guildID string, limit, offset int) ([]*domain.AuditEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll != nil {
		return nil, r.failAll
	}
	var out []*domain.AuditEntry
	for _, e := range r.entries {
		if e.GuildID == guildID {
			out = append(out, e)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeAuditRepo) byTarget(targetID string) []*domain.AuditEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.AuditEntry
	for _, e := range r.entries {
		if e.TargetID == targetID {
			out = append(out, e)
		}
	}
	return out
}

type fakePublisher struct {
	mu       sync.Mutex
	channels []string
	payloads [][]byte
	failAll  error
}

func (p *fakePublisher) Publish(_ context.Context, channel string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failAll != nil {
		return p.failAll
	}
	p.channels = append(p.channels, channel)
	p.payloads = append(p.payloads, payload)
	return nil
}

// fakeChecker answers existence checks from fixed sets; anything not listed
// is gone.
type fakeChecker struct {
	channels map[string]bool
	members  map[string]bool
}

func (c *fakeChecker) GuildExists(context.Context, string) (bool, error) { return true, nil }

func (c *fakeChecker) ChannelExists(_ context.Context, _, channelID string) (bool, error) {
	return c.channels[channelID], nil
}

func (c *fakeChecker) MemberExists(_ context.Context, _, userID string) (bool, error) {
	return c.members[userID], nil
}

// --- fixture builders ---

type fixtures struct {
	staff        *fakeStaffRepo
	cases        *fakeCaseRepo
	applications *fakeApplicationRepo
	jobs         *fakeJobRepo
	retainers    *fakeRetainerRepo
	feedback     *fakeFeedbackRepo
	reminders    *fakeReminderRepo
}

func newFixtures() *fixtures {
	return &fixtures{
		staff:        &fakeStaffRepo{},
		cases:        &fakeCaseRepo{},
		applications: &fakeApplicationRepo{},
		jobs:         &fakeJobRepo{},
		retainers:    &fakeRetainerRepo{},
		feedback:     &fakeFeedbackRepo{},
		reminders:    &fakeReminderRepo{},
	}
}

func (f *fixtures) repos() integrity.Repositories {
	return integrity.Repositories{
		Staff:        f.staff,
		Cases:        f.cases,
		Applications: f.applications,
		Jobs:         f.jobs,
		Retainers:    f.retainers,
		Feedback:     f.feedback,
		Reminders:    f.reminders,
	}
}

func activeStaff(id, guildID, userID string) *domain.Staff {
	return &domain.Staff{
		ID:       id,
		GuildID:  guildID,
		UserID:   userID,
		Username: "user-" + userID,
		Role:     domain.RoleJuniorAssociate,
		Status:   domain.StaffStatusActive,
		HiredAt:  time.Now().Add(-24 * time.Hour),
		HiredBy:  "hirer",
	}
}

func openCase(id, guildID string) *domain.CaseFile {
	return &domain.CaseFile{
		ID:         id,
		GuildID:    guildID,
		CaseNumber: "2026-" + id,
		ClientID:   "client-1",
		Title:      "Matter " + id,
		Status:     domain.CaseStatusOpen,
		Priority:   domain.CasePriorityMedium,
		CreatedAt:  time.Now().Add(-48 * time.Hour),
	}
}
