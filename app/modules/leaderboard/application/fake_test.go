package leaderboardservice

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	leaderboarddb "github.com/Black-And-White-Club/reelboard/app/modules/leaderboard/infrastructure/repositories"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Leaderboard Repo
// ------------------------

type FakeLeaderboardRepo struct {
	trace []string

	ReadCorpusFunc        func(ctx context.Context, db bun.IDB) ([]leaderboarddb.CorpusRow, error)
	PublishSnapshotFunc   func(ctx context.Context, db bun.IDB, snapshot leaderboarddb.Snapshot, retain int) (*leaderboarddb.LeaderboardVersion, error)
	GetCurrentVersionFunc func(ctx context.Context, db bun.IDB) (*leaderboarddb.LeaderboardVersion, error)
	GetCurrentEntriesFunc func(ctx context.Context, db bun.IDB, limit int) ([]leaderboarddb.EntryRow, error)
}

func NewFakeLeaderboardRepo() *FakeLeaderboardRepo {
	return &FakeLeaderboardRepo{trace: []string{}}
}

func (f *FakeLeaderboardRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeLeaderboardRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeLeaderboardRepo) ReadCorpus(ctx context.Context, db bun.IDB) ([]leaderboarddb.CorpusRow, error) {
	f.record("ReadCorpus")
	if f.ReadCorpusFunc != nil {
		return f.ReadCorpusFunc(ctx, db)
	}
	return nil, nil
}

func (f *FakeLeaderboardRepo) PublishSnapshot(ctx context.Context, db bun.IDB, snapshot leaderboarddb.Snapshot, retain int) (*leaderboarddb.LeaderboardVersion, error) {
	f.record("PublishSnapshot")
	if f.PublishSnapshotFunc != nil {
		return f.PublishSnapshotFunc(ctx, db, snapshot, retain)
	}
	return &leaderboarddb.LeaderboardVersion{
		ID:         uuid.New(),
		IsCurrent:  true,
		EntryCount: len(snapshot.Entries),
		CreatedAt:  time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC),
	}, nil
}

func (f *FakeLeaderboardRepo) GetCurrentVersion(ctx context.Context, db bun.IDB) (*leaderboarddb.LeaderboardVersion, error) {
	f.record("GetCurrentVersion")
	if f.GetCurrentVersionFunc != nil {
		return f.GetCurrentVersionFunc(ctx, db)
	}
	return nil, leaderboarddb.ErrNoCurrentVersion
}

func (f *FakeLeaderboardRepo) GetCurrentEntries(ctx context.Context, db bun.IDB, limit int) ([]leaderboarddb.EntryRow, error) {
	f.record("GetCurrentEntries")
	if f.GetCurrentEntriesFunc != nil {
		return f.GetCurrentEntriesFunc(ctx, db, limit)
	}
	return nil, nil
}

var _ leaderboarddb.Repository = (*FakeLeaderboardRepo)(nil)

// ------------------------
// Fake Publisher
// ------------------------

type publishedMessage struct {
	Topic   string
	Payload json.RawMessage
}

type FakePublisher struct {
	mu       sync.Mutex
	messages []publishedMessage
	Err      error
}

func (p *FakePublisher) Publish(topic string, msgs ...*message.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	for _, m := range msgs {
		p.messages = append(p.messages, publishedMessage{Topic: topic, Payload: json.RawMessage(m.Payload)})
	}
	return nil
}

func (p *FakePublisher) Close() error { return nil }

func (p *FakePublisher) Topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.messages))
	for i, m := range p.messages {
		out[i] = m.Topic
	}
	return out
}

func (p *FakePublisher) Last() publishedMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.messages[len(p.messages)-1]
}
