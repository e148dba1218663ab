package game

import (
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// CardSource supplies the fixed card universes a new room starts from.
type CardSource interface {
	Prompts() []Card
	Responses() []Card
}

// Registry maps room codes to live rooms. Its lock guards only the map
// itself and is never held across a room mutation.
type Registry struct {
	mu     sync.RWMutex
	rooms  map[string]*Room
	source CardSource
	cfg    Config
}

func NewRegistry(source CardSource, cfg Config) *Registry {
	return &Registry{
		rooms:  make(map[string]*Room),
		source: source,
		cfg:    cfg,
	}
}

// GetOrCreate returns the room for a normalized code, creating it on the
// first join of an unseen code. Each room gets its own rand source, only
// ever used under that room's lock.
func (g *Registry) GetOrCreate(code string) *Room {
	g.mu.RLock()
	r, ok := g.rooms[code]
	g.mu.RUnlock()
	if ok {
		return r
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if r, ok := g.rooms[code]; ok {
		return r
	}
	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	r = NewRoom(code, g.source.Prompts(), g.source.Responses(), g.cfg, rng)
	g.rooms[code] = r
	return r
}

func (g *Registry) Get(code string) (*Room, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	r, ok := g.rooms[code]
	return r, ok
}

// Remove deletes the mapping. Called the instant a room reports empty; the
// registry holds no reference past that point.
func (g *Registry) Remove(code string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.rooms, code)
}

func (g *Registry) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.rooms)
}

// NewRoomCode mints a short shareable code for clients that do not bring
// their own.
func NewRoomCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:6])
}
