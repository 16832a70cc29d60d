package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/infrastructure/realtime"
	busdomain "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/bus/domain"
	chat "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/chat/domain"
	userdomain "github.com/prathmbavge/ai-powered-bus-crowd-detect/internal/pkg/user/domain"
)

// fakeMessages is an in-memory MessageRepository.
type fakeMessages struct {
	saved    []chat.Draft
	listing  []chat.Message
	unread   map[string]map[string]int // busID -> viewerID -> unread count
	failSave error
	failList error
}

func newFakeMessages() *fakeMessages {
	return &fakeMessages{unread: make(map[string]map[string]int)}
}

func (f *fakeMessages) Save(ctx context.Context, d chat.Draft) (string, time.Time, error) {
	if f.failSave != nil {
		return "", time.Time{}, f.failSave
	}
	f.saved = append(f.saved, d)
	return fmt.Sprintf("msg-%d", len(f.saved)), time.Now().UTC(), nil
}

func (f *fakeMessages) ListForBus(ctx context.Context, busID string) ([]chat.Message, error) {
	if f.failList != nil {
		return nil, f.failList
	}
	var out []chat.Message
	for _, m := range f.listing {
		if m.BusID == busID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMessages) MarkRead(ctx context.Context, busID, viewerID string) (int64, error) {
	byViewer := f.unread[busID]
	if byViewer == nil {
		return 0, nil
	}
	n := byViewer[viewerID]
	byViewer[viewerID] = 0
	return int64(n), nil
}

// fakeBuses is a map-backed BusRepository; only the read methods the chat use
// cases touch are meaningful, the rest satisfy the interface.
type fakeBuses struct {
	buses map[string]*busdomain.Bus
}

func newFakeBuses(buses ...*busdomain.Bus) *fakeBuses {
	m := make(map[string]*busdomain.Bus)
	for _, b := range buses {
		m[b.ID] = b
	}
	return &fakeBuses{buses: m}
}

func (f *fakeBuses) FindByID(ctx context.Context, id string) (*busdomain.Bus, error) {
	return f.buses[id], nil
}
func (f *fakeBuses) Create(ctx context.Context, b busdomain.Bus) (*busdomain.Bus, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeBuses) FindByNumber(ctx context.Context, n string) (*busdomain.Bus, error) {
	return nil, nil
}
func (f *fakeBuses) FindByPublicToken(ctx context.Context, t string) (*busdomain.Bus, error) {
	return nil, nil
}
func (f *fakeBuses) List(ctx context.Context) ([]busdomain.Bus, error) { return nil, nil }
func (f *fakeBuses) ListByCreator(ctx context.Context, u string) ([]busdomain.Bus, error) {
	return nil, nil
}
func (f *fakeBuses) Update(ctx context.Context, id string, u busdomain.Update) (*busdomain.Bus, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeBuses) Delete(ctx context.Context, id string) error { return nil }
func (f *fakeBuses) SetCrowd(ctx context.Context, id string, l busdomain.CrowdLevel, c int) error {
	return nil
}
func (f *fakeBuses) SetMonitoring(ctx context.Context, id string, m bool) error { return nil }
func (f *fakeBuses) SetVideoTask(ctx context.Context, id string, t, s *string) error {
	return nil
}
func (f *fakeBuses) SetPublicToken(ctx context.Context, id, tok string) error { return nil }
func (f *fakeBuses) SetVideoURL(ctx context.Context, id, url string) error    { return nil }

// fakeUsers is a map-backed UserRepository.
type fakeUsers struct {
	users map[string]*userdomain.User
}

func newFakeUsers(users ...*userdomain.User) *fakeUsers {
	m := make(map[string]*userdomain.User)
	for _, u := range users {
		m[u.ID] = u
	}
	return &fakeUsers{users: m}
}

func (f *fakeUsers) FindByID(ctx context.Context, id string) (*userdomain.User, error) {
	return f.users[id], nil
}
func (f *fakeUsers) TouchLastActive(ctx context.Context, id string) error { return nil }

// fakePublisher records every publish by room.
type fakePublisher struct {
	published map[realtime.Room][][]byte
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{published: make(map[realtime.Room][][]byte)}
}

func (f *fakePublisher) Publish(room realtime.Room, payload []byte) int {
	f.published[room] = append(f.published[room], payload)
	return 1
}
