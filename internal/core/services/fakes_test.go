package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"sfa-welfarehub/internal/adapters/authprovider"
	"sfa-welfarehub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// In-memory fakes implementing the repository interfaces, so service
// policy can be tested without a database.

type fakeCounterRepo struct {
	mu      sync.Mutex
	counter *models.SfaIDCounter

	createErr   error
	allocateErr error
}

func (f *fakeCounterRepo) Create(_ context.Context, counter *models.SfaIDCounter) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if f.counter != nil {
		return errors.New("duplicate key")
	}
	c := *counter
	f.counter = &c
	return nil
}

func (f *fakeCounterRepo) Get(_ context.Context) (*models.SfaIDCounter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.counter == nil {
		return nil, gorm.ErrRecordNotFound
	}
	c := *f.counter
	return &c, nil
}

func (f *fakeCounterRepo) Allocate(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.allocateErr != nil {
		return 0, f.allocateErr
	}
	if f.counter == nil {
		return 0, gorm.ErrRecordNotFound
	}
	f.counter.Current++
	f.counter.LastUpdated = time.Now()
	return f.counter.Current, nil
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []*models.AuditLog
}

func (f *fakeAuditRepo) Create(_ context.Context, entry *models.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditRepo) List(_ context.Context, offset, limit int) ([]*models.AuditLog, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entries, int64(len(f.entries)), nil
}

func (f *fakeAuditRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}

type fakeMemberRepo struct {
	members map[string]*models.Member // keyed by member ID

	deleteErr error
	updateErr error
	createErr error
}

func newFakeMemberRepo(members ...*models.Member) *fakeMemberRepo {
	f := &fakeMemberRepo{members: map[string]*models.Member{}}
	for _, m := range members {
		c := *m
		f.members[m.MemberID] = &c
	}
	return f
}

func (f *fakeMemberRepo) Create(_ context.Context, member *models.Member) error {
	if f.createErr != nil {
		return f.createErr
	}
	c := *member
	f.members[member.MemberID] = &c
	return nil
}

func (f *fakeMemberRepo) GetByUID(_ context.Context, uid string) (*models.Member, error) {
	for _, m := range f.members {
		if m.UID == uid {
			c := *m
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeMemberRepo) GetByMemberID(_ context.Context, memberID string) (*models.Member, error) {
	m, ok := f.members[memberID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *m
	return &c, nil
}

func (f *fakeMemberRepo) GetBySfaID(_ context.Context, sfaID string) (*models.Member, error) {
	for _, m := range f.members {
		if m.SfaID == sfaID {
			c := *m
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeMemberRepo) Update(_ context.Context, member *models.Member) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.members[member.MemberID]; !ok {
		return gorm.ErrRecordNotFound
	}
	c := *member
	f.members[member.MemberID] = &c
	return nil
}

func (f *fakeMemberRepo) DeleteByMemberID(_ context.Context, memberID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.members, memberID)
	return nil
}

func (f *fakeMemberRepo) List(_ context.Context, offset, limit int) ([]*models.Member, int64, error) {
	var out []*models.Member
	for _, m := range f.members {
		c := *m
		out = append(out, &c)
	}
	return out, int64(len(f.members)), nil
}

func (f *fakeMemberRepo) CountAdmins(_ context.Context) (int64, error) {
	var n int64
	for _, m := range f.members {
		if m.IsActive && (m.Role == models.RoleAdmin || m.Role == models.RoleFounder) {
			n++
		}
	}
	return n, nil
}

func (f *fakeMemberRepo) ExistsByMemberID(_ context.Context, memberID string) (bool, error) {
	_, ok := f.members[memberID]
	return ok, nil
}

type fakeMirrorRepo struct {
	mirrors map[string]*models.MemberMirror // keyed by UID

	deleteErr error
}

func newFakeMirrorRepo(mirrors ...*models.MemberMirror) *fakeMirrorRepo {
	f := &fakeMirrorRepo{mirrors: map[string]*models.MemberMirror{}}
	for _, m := range mirrors {
		c := *m
		f.mirrors[m.UID] = &c
	}
	return f
}

func (f *fakeMirrorRepo) Create(_ context.Context, mirror *models.MemberMirror) error {
	c := *mirror
	f.mirrors[mirror.UID] = &c
	return nil
}

func (f *fakeMirrorRepo) GetByUID(_ context.Context, uid string) (*models.MemberMirror, error) {
	m, ok := f.mirrors[uid]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *m
	return &c, nil
}

func (f *fakeMirrorRepo) Update(_ context.Context, mirror *models.MemberMirror) error {
	if _, ok := f.mirrors[mirror.UID]; !ok {
		return gorm.ErrRecordNotFound
	}
	c := *mirror
	f.mirrors[mirror.UID] = &c
	return nil
}

func (f *fakeMirrorRepo) DeleteByUID(_ context.Context, uid string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.mirrors, uid)
	return nil
}

type fakeCredentialStore struct {
	creds map[string]*models.AuthCredential // keyed by UID

	deleteErr      error
	updateEmailErr error
}

func newFakeCredentialStore(creds ...*models.AuthCredential) *fakeCredentialStore {
	f := &fakeCredentialStore{creds: map[string]*models.AuthCredential{}}
	for _, c := range creds {
		cc := *c
		f.creds[c.UID] = &cc
	}
	return f
}

func (f *fakeCredentialStore) Create(_ context.Context, cred *models.AuthCredential) error {
	for _, existing := range f.creds {
		if existing.Email == cred.Email {
			return authprovider.ErrEmailTaken
		}
	}
	c := *cred
	f.creds[cred.UID] = &c
	return nil
}

func (f *fakeCredentialStore) GetByUID(_ context.Context, uid string) (*models.AuthCredential, error) {
	c, ok := f.creds[uid]
	if !ok {
		return nil, authprovider.ErrCredentialNotFound
	}
	cc := *c
	return &cc, nil
}

func (f *fakeCredentialStore) GetByEmail(_ context.Context, email string) (*models.AuthCredential, error) {
	for _, c := range f.creds {
		if c.Email == email {
			cc := *c
			return &cc, nil
		}
	}
	return nil, authprovider.ErrCredentialNotFound
}

func (f *fakeCredentialStore) UpdateEmail(_ context.Context, uid, newEmail string) error {
	if f.updateEmailErr != nil {
		return f.updateEmailErr
	}
	c, ok := f.creds[uid]
	if !ok {
		return authprovider.ErrCredentialNotFound
	}
	c.Email = newEmail
	return nil
}

func (f *fakeCredentialStore) UpdatePasswordHash(_ context.Context, uid, newHash string) error {
	c, ok := f.creds[uid]
	if !ok {
		return authprovider.ErrCredentialNotFound
	}
	c.PasswordHash = newHash
	return nil
}

func (f *fakeCredentialStore) Delete(_ context.Context, uid string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.creds[uid]; !ok {
		return authprovider.ErrCredentialNotFound
	}
	delete(f.creds, uid)
	return nil
}

type fakeBeneficiaryRepo struct {
	mu        sync.Mutex
	nextID    uint
	requests  map[uint]*models.BeneficiaryRequest
	approvals []*models.BeneficiaryApproval
}

func newFakeBeneficiaryRepo() *fakeBeneficiaryRepo {
	return &fakeBeneficiaryRepo{requests: map[uint]*models.BeneficiaryRequest{}}
}

func (f *fakeBeneficiaryRepo) Create(_ context.Context, req *models.BeneficiaryRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	req.ID = f.nextID
	c := *req
	f.requests[req.ID] = &c
	return nil
}

func (f *fakeBeneficiaryRepo) GetByID(_ context.Context, id uint) (*models.BeneficiaryRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *r
	return &c, nil
}

func (f *fakeBeneficiaryRepo) List(_ context.Context, offset, limit int) ([]*models.BeneficiaryRequest, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.BeneficiaryRequest
	for _, r := range f.requests {
		c := *r
		out = append(out, &c)
	}
	return out, int64(len(out)), nil
}

func (f *fakeBeneficiaryRepo) ListByRequester(_ context.Context, uid string) ([]*models.BeneficiaryRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.BeneficiaryRequest
	for _, r := range f.requests {
		if r.RequesterUID == uid {
			c := *r
			out = append(out, &c)
		}
	}
	return out, nil
}

// CastVote mirrors the real repository's contract: load, apply, persist
// both rows, all under one lock; apply errors abort without persisting.
func (f *fakeBeneficiaryRepo) CastVote(_ context.Context, id uint, apply func(req *models.BeneficiaryRequest) (*models.BeneficiaryApproval, error)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requests[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	working := *r
	approval, err := apply(&working)
	if err != nil {
		return err
	}
	f.requests[id] = &working
	f.approvals = append(f.approvals, approval)
	return nil
}

func (f *fakeBeneficiaryRepo) ListApprovals(_ context.Context, requestID uint) ([]*models.BeneficiaryApproval, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.BeneficiaryApproval
	for _, a := range f.approvals {
		if a.RequestID == requestID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeBeneficiaryRepo) ListPendingBefore(_ context.Context, cutoff time.Time) ([]*models.BeneficiaryRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.BeneficiaryRequest
	for _, r := range f.requests {
		if r.Status == models.RequestStatusPending && r.CreatedAt.Before(cutoff) {
			c := *r
			out = append(out, &c)
		}
	}
	return out, nil
}

type fakeRefreshTokenRepo struct {
	nextID uint
	tokens map[string]*models.RefreshToken // keyed by token hash
}

func newFakeRefreshTokenRepo() *fakeRefreshTokenRepo {
	return &fakeRefreshTokenRepo{tokens: map[string]*models.RefreshToken{}}
}

func (f *fakeRefreshTokenRepo) Create(_ context.Context, token *models.RefreshToken) error {
	f.nextID++
	token.ID = f.nextID
	c := *token
	f.tokens[token.TokenHash] = &c
	return nil
}

func (f *fakeRefreshTokenRepo) GetByTokenHash(_ context.Context, tokenHash string) (*models.RefreshToken, error) {
	t, ok := f.tokens[tokenHash]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *t
	return &c, nil
}

func (f *fakeRefreshTokenRepo) Revoke(_ context.Context, id uint) error {
	for _, t := range f.tokens {
		if t.ID == id {
			now := time.Now()
			t.RevokedAt = &now
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeRefreshTokenRepo) RevokeByTokenHash(_ context.Context, tokenHash string) error {
	t, ok := f.tokens[tokenHash]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	now := time.Now()
	t.RevokedAt = &now
	return nil
}

func (f *fakeRefreshTokenRepo) RevokeAllByUID(_ context.Context, uid string) error {
	now := time.Now()
	for _, t := range f.tokens {
		if t.UID == uid {
			t.RevokedAt = &now
		}
	}
	return nil
}

func (f *fakeRefreshTokenRepo) DeleteExpired(_ context.Context) (int64, error) {
	var n int64
	for hash, t := range f.tokens {
		if t.IsExpired() {
			delete(f.tokens, hash)
			n++
		}
	}
	return n, nil
}

type fakePaymentRepo struct {
	payments []*models.Payment

	batchErr error
}

func (f *fakePaymentRepo) Create(_ context.Context, payment *models.Payment) error {
	c := *payment
	f.payments = append(f.payments, &c)
	return nil
}

func (f *fakePaymentRepo) CreateBatch(_ context.Context, payments []*models.Payment) error {
	if f.batchErr != nil {
		return f.batchErr
	}
	for _, p := range payments {
		c := *p
		f.payments = append(f.payments, &c)
	}
	return nil
}

func (f *fakePaymentRepo) ListBySfaID(_ context.Context, sfaID string) ([]*models.Payment, error) {
	var out []*models.Payment
	for _, p := range f.payments {
		if p.SfaID == sfaID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) List(_ context.Context, month string, offset, limit int) ([]*models.Payment, int64, error) {
	var out []*models.Payment
	for _, p := range f.payments {
		if month == "" || p.Month == month {
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakePaymentRepo) MonthTotal(_ context.Context, month string) (float64, int64, error) {
	var total float64
	var count int64
	for _, p := range f.payments {
		if p.Month == month {
			total += p.Amount
			count++
		}
	}
	return total, count, nil
}
