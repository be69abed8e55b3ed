package testutils

import (
	"context"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/uptrace/bun"

	videodb "github.com/Black-And-White-Club/reelboard/app/modules/video/infrastructure/repositories"
)

// TestDataGenerator creates users and videos for integration tests.
type TestDataGenerator struct {
	faker *gofakeit.Faker
}

// NewTestDataGenerator creates a generator; pass a seed for reproducible data.
func NewTestDataGenerator(seed ...int64) *TestDataGenerator {
	s := time.Now().UnixNano()
	if len(seed) > 0 {
		s = seed[0]
	}
	return &TestDataGenerator{faker: gofakeit.New(uint64(s))}
}

// User returns an unsaved profile.
func (g *TestDataGenerator) User() *videodb.User {
	return &videodb.User{
		ID:        g.faker.UUID(),
		Username:  g.faker.Username(),
		AvatarURL: g.faker.URL(),
	}
}

// Video returns an unsaved video owned by userID with the given counters.
func (g *TestDataGenerator) Video(userID string, likes, views int) *videodb.Video {
	id := g.faker.UUID()
	return &videodb.Video{
		ID:           id,
		UserID:       userID,
		Title:        g.faker.Sentence(g.faker.Number(2, 5)),
		Description:  g.faker.Sentence(g.faker.Number(5, 12)),
		VideoURL:     "https://cdn.example/videos/" + id + ".mp4",
		ThumbnailURL: "https://cdn.example/thumbs/" + id + ".jpg",
		Likes:        likes,
		Views:        views,
	}
}

// InsertUser saves a generated user.
func (g *TestDataGenerator) InsertUser(t *testing.T, ctx context.Context, db bun.IDB) *videodb.User {
	t.Helper()
	user := g.User()
	if _, err := db.NewInsert().Model(user).Exec(ctx); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	return user
}

// InsertVideo saves a generated video with preset counters. createdAt
// orders the corpus; zero leaves the database default.
func (g *TestDataGenerator) InsertVideo(t *testing.T, ctx context.Context, db bun.IDB, userID string, likes, views int, createdAt time.Time) *videodb.Video {
	t.Helper()
	video := g.Video(userID, likes, views)
	if !createdAt.IsZero() {
		video.CreatedAt = createdAt
	}
	if _, err := db.NewInsert().Model(video).Exec(ctx); err != nil {
		t.Fatalf("insert video: %v", err)
	}
	return video
}
