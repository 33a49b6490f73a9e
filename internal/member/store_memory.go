package member

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"samajsetu/internal/models"
	dErrors "samajsetu/pkg/domain-errors"
)

// InMemoryStore keeps all census data in process memory. Transactions work
// on a snapshot that is swapped in on Commit, so a rolled-back registration
// leaves no trace. Writers are serialized; the store lock is held for the
// life of each transaction.
type InMemoryStore struct {
	mu    sync.Mutex
	state memoryState

	nextSamajID  int64
	nextFamilyID int64
	nextMemberID int64
}

type memoryState struct {
	samajs   map[int64]models.Samaj
	families map[int64]models.Family
	members  map[int64]models.Member
}

func (s memoryState) clone() memoryState {
	out := memoryState{
		samajs:   make(map[int64]models.Samaj, len(s.samajs)),
		families: make(map[int64]models.Family, len(s.families)),
		members:  make(map[int64]models.Member, len(s.members)),
	}
	for id, v := range s.samajs {
		out.samajs[id] = v
	}
	for id, v := range s.families {
		v := v
		if v.HeadOfFamilyID != nil {
			head := *v.HeadOfFamilyID
			v.HeadOfFamilyID = &head
		}
		out.families[id] = v
	}
	for id, v := range s.members {
		out.members[id] = cloneMember(v)
	}
	return out
}

func cloneMember(m models.Member) models.Member {
	m.Age = cloneIntPtr(m.Age)
	m.Mobile2 = cloneStrPtr(m.Mobile2)
	m.AnniversaryDate = cloneStrPtr(m.AnniversaryDate)
	m.MedicalConditions = cloneStrPtr(m.MedicalConditions)
	m.SocialMediaHandles = cloneStrPtr(m.SocialMediaHandles)
	m.VolunteerInterests = cloneStrPtr(m.VolunteerInterests)
	return m
}

func cloneIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneStrPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// NewInMemory constructs an empty in-memory member store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		state: memoryState{
			samajs:   make(map[int64]models.Samaj),
			families: make(map[int64]models.Family),
			members:  make(map[int64]models.Member),
		},
	}
}

func (s *InMemoryStore) Begin(ctx context.Context) (Tx, error) {
	s.mu.Lock()
	return &memoryTx{
		store:        s,
		state:        s.state.clone(),
		nextSamajID:  s.nextSamajID,
		nextFamilyID: s.nextFamilyID,
		nextMemberID: s.nextMemberID,
	}, nil
}

type memoryTx struct {
	store *InMemoryStore
	state memoryState
	done  bool

	nextSamajID  int64
	nextFamilyID int64
	nextMemberID int64
}

func (t *memoryTx) GetOrCreateSamaj(ctx context.Context, name string) (*models.Samaj, error) {
	for _, samaj := range t.state.samajs {
		if samaj.Name == name {
			samaj := samaj
			return &samaj, nil
		}
	}
	t.nextSamajID++
	now := time.Now().UTC()
	samaj := models.Samaj{ID: t.nextSamajID, Name: name, CreatedAt: now, UpdatedAt: now}
	t.state.samajs[samaj.ID] = samaj
	return &samaj, nil
}

func (t *memoryTx) CreateFamily(ctx context.Context, samajID int64, name string) (*models.Family, error) {
	for _, family := range t.state.families {
		if family.SamajID == samajID && family.Name == name {
			return nil, dErrors.New(dErrors.CodeConflict, "family already exists")
		}
	}
	t.nextFamilyID++
	now := time.Now().UTC()
	family := models.Family{ID: t.nextFamilyID, Name: name, SamajID: samajID, CreatedAt: now, UpdatedAt: now}
	t.state.families[family.ID] = family
	return &family, nil
}

func (t *memoryTx) FindFamilyByHead(ctx context.Context, samajID int64, headName string) (*models.Family, error) {
	for _, m := range t.state.members {
		if m.SamajID == samajID && m.IsFamilyHead && strings.EqualFold(m.Name, headName) {
			family, ok := t.state.families[m.FamilyID]
			if !ok {
				break
			}
			return &family, nil
		}
	}
	return nil, dErrors.New(dErrors.CodeNotFound, "family head not found")
}

func (t *memoryTx) ListFamilyMembers(ctx context.Context, familyID int64) ([]models.Member, error) {
	var members []models.Member
	for _, m := range t.state.members {
		if m.FamilyID == familyID {
			members = append(members, cloneMember(m))
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })
	return members, nil
}

func (t *memoryTx) CreateMember(ctx context.Context, m *models.Member) error {
	t.nextMemberID++
	now := time.Now().UTC()
	m.ID = t.nextMemberID
	m.CreatedAt = now
	m.UpdatedAt = now
	t.state.members[m.ID] = cloneMember(*m)
	return nil
}

func (t *memoryTx) SetFamilyHead(ctx context.Context, familyID, memberID int64) error {
	family, ok := t.state.families[familyID]
	if !ok {
		return dErrors.New(dErrors.CodeNotFound, "family not found")
	}
	family.HeadOfFamilyID = &memberID
	family.UpdatedAt = time.Now().UTC()
	t.state.families[familyID] = family
	return nil
}

func (t *memoryTx) Commit() error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.state = t.state
	t.store.nextSamajID = t.nextSamajID
	t.store.nextFamilyID = t.nextFamilyID
	t.store.nextMemberID = t.nextMemberID
	t.store.mu.Unlock()
	return nil
}

func (t *memoryTx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.mu.Unlock()
	return nil
}

func (s *InMemoryStore) ListMembers(ctx context.Context, f Filters) ([]models.MemberListing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	listings := make([]models.MemberListing, 0)
	for _, m := range s.state.members {
		listing := s.toListing(m)
		if matchesFilters(listing, f) {
			listings = append(listings, listing)
		}
	}
	sort.Slice(listings, func(i, j int) bool { return listings[i].ID < listings[j].ID })
	return paginate(listings, f.Limit, f.Offset), nil
}

func (s *InMemoryStore) GetMember(ctx context.Context, id int64) (*models.MemberListing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.state.members[id]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "member not found")
	}
	listing := s.toListing(m)
	return &listing, nil
}

func (s *InMemoryStore) ListSamajSummaries(ctx context.Context) ([]models.SamajSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	summaries := make([]models.SamajSummary, 0, len(s.state.samajs))
	for _, samaj := range s.state.samajs {
		sum := models.SamajSummary{Samaj: samaj}
		for _, family := range s.state.families {
			if family.SamajID == samaj.ID {
				sum.FamilyCount++
			}
		}
		for _, m := range s.state.members {
			if m.SamajID == samaj.ID {
				sum.MemberCount++
			}
		}
		summaries = append(summaries, sum)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Name < summaries[j].Name })
	return summaries, nil
}

func (s *InMemoryStore) ListFamilySummaries(ctx context.Context, samajName string) ([]models.FamilySummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	summaries := make([]models.FamilySummary, 0)
	for _, family := range s.state.families {
		samaj, ok := s.state.samajs[family.SamajID]
		if !ok {
			continue
		}
		if samajName != "" && !containsFold(samaj.Name, samajName) {
			continue
		}
		sum := models.FamilySummary{
			ID:        family.ID,
			Name:      family.Name,
			SamajName: samaj.Name,
			CreatedAt: family.CreatedAt,
		}
		if family.HeadOfFamilyID != nil {
			if head, ok := s.state.members[*family.HeadOfFamilyID]; ok {
				name := head.Name
				sum.HeadName = &name
			}
		}
		for _, m := range s.state.members {
			if m.FamilyID == family.ID {
				sum.MemberCount++
			}
		}
		summaries = append(summaries, sum)
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].SamajName != summaries[j].SamajName {
			return summaries[i].SamajName < summaries[j].SamajName
		}
		return summaries[i].Name < summaries[j].Name
	})
	return summaries, nil
}

func (s *InMemoryStore) ListFamilyMembers(ctx context.Context, familyID int64) ([]models.MemberListing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	listings := make([]models.MemberListing, 0)
	for _, m := range s.state.members {
		if m.FamilyID == familyID {
			listings = append(listings, s.toListing(m))
		}
	}
	sort.Slice(listings, func(i, j int) bool { return listings[i].ID < listings[j].ID })
	return listings, nil
}

// toListing must be called with the store lock held.
func (s *InMemoryStore) toListing(m models.Member) models.MemberListing {
	listing := models.MemberListing{Member: cloneMember(m)}
	if samaj, ok := s.state.samajs[m.SamajID]; ok {
		listing.SamajName = samaj.Name
	}
	if family, ok := s.state.families[m.FamilyID]; ok {
		listing.FamilyName = family.Name
	}
	return listing
}

func matchesFilters(l models.MemberListing, f Filters) bool {
	if f.SamajName != "" && !containsFold(l.SamajName, f.SamajName) {
		return false
	}
	if f.FamilyName != "" && !containsFold(l.FamilyName, f.FamilyName) {
		return false
	}
	if f.Name != "" && !containsFold(l.Name, f.Name) {
		return false
	}
	if f.Role != "" && string(l.FamilyRole) != f.Role {
		return false
	}
	if f.BloodGroup != "" && !strings.EqualFold(l.BloodGroup, f.BloodGroup) {
		return false
	}
	if f.City != "" && !containsFold(l.CurrentCity, f.City) {
		return false
	}
	if f.Profession != "" && !containsFold(l.ProfessionCategory, f.Profession) {
		return false
	}
	if f.AgeMin != nil && (l.Age == nil || *l.Age < *f.AgeMin) {
		return false
	}
	if f.AgeMax != nil && (l.Age == nil || *l.Age > *f.AgeMax) {
		return false
	}
	if f.IsFamilyHead != nil && l.IsFamilyHead != *f.IsFamilyHead {
		return false
	}
	return true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func paginate(listings []models.MemberListing, limit, offset int) []models.MemberListing {
	if offset > 0 {
		if offset >= len(listings) {
			return []models.MemberListing{}
		}
		listings = listings[offset:]
	}
	if limit > 0 && limit < len(listings) {
		listings = listings[:limit]
	}
	return listings
}
