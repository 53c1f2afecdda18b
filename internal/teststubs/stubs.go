package teststubs

import (
	"context"
	"sync"

	"github.com/preston-bernstein/league-service/internal/domain"
	"github.com/preston-bernstein/league-service/internal/markers"
	"github.com/preston-bernstein/league-service/internal/notify"
)

// DM is a recorded direct message.
type DM struct {
	PlayerID string
	Text     string
}

// RecordingSink captures notifications for assertions.
type RecordingSink struct {
	mu    sync.Mutex
	dms   []DM
	posts []notify.Post
}

func (s *RecordingSink) DirectMessage(_ context.Context, playerID, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dms = append(s.dms, DM{PlayerID: playerID, Text: text})
}

func (s *RecordingSink) Post(_ context.Context, post notify.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = append(s.posts, post)
}

// DMs returns a copy of recorded direct messages.
func (s *RecordingSink) DMs() []DM {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]DM(nil), s.dms...)
}

// Posts returns a copy of recorded posts.
func (s *RecordingSink) Posts() []notify.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notify.Post(nil), s.posts...)
}

// PostsTo returns recorded posts for one channel.
func (s *RecordingSink) PostsTo(channel notify.Channel) []notify.Post {
	var out []notify.Post
	for _, p := range s.Posts() {
		if p.Channel == channel {
			out = append(out, p)
		}
	}
	return out
}

// StubGateway wraps a MemoryGateway and can fail on demand.
type StubGateway struct {
	*markers.MemoryGateway
	ReadErr     error
	ReplaceErr  error
	ReplaceCall int
}

// NewStubGateway builds a working gateway.
func NewStubGateway() *StubGateway {
	return &StubGateway{MemoryGateway: markers.NewMemoryGateway()}
}

func (g *StubGateway) Markers(ctx context.Context, playerID string) ([]string, error) {
	if g.ReadErr != nil {
		return nil, g.ReadErr
	}
	return g.MemoryGateway.Markers(ctx, playerID)
}

func (g *StubGateway) Replace(ctx context.Context, playerID string, set []string) error {
	g.ReplaceCall++
	if g.ReplaceErr != nil {
		return g.ReplaceErr
	}
	return g.MemoryGateway.Replace(ctx, playerID, set)
}

// Modify fails with ReadErr or ReplaceErr before touching the stored set.
func (g *StubGateway) Modify(ctx context.Context, playerID string, plan func(current []string) []string) ([]string, error) {
	if g.ReadErr != nil {
		return nil, g.ReadErr
	}
	g.ReplaceCall++
	if g.ReplaceErr != nil {
		return nil, g.ReplaceErr
	}
	return g.MemoryGateway.Modify(ctx, playerID, plan)
}

// FailingBackend is a store backend whose operations fail with Err.
type FailingBackend struct {
	Err error
}

func (b FailingBackend) Load(context.Context) (*domain.Document, error) { return nil, b.Err }

func (b FailingBackend) Save(context.Context, *domain.Document) error { return b.Err }

func (b FailingBackend) Close() error { return nil }
