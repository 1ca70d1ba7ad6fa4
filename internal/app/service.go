package app

import (
    "context"
    "errors"
    "fmt"
    "sync"
    "time"

    "github.com/google/uuid"
    "go.uber.org/zap"

    "github.com/jaminalder/tictactoe-minimax/internal/domain"
    "github.com/jaminalder/tictactoe-minimax/internal/store"
)

// Errors exposed by the service layer.
var (
    ErrNotFound    = errors.New("game not found")
    ErrNotYourTurn = errors.New("not your turn")
    ErrNotAPlayer  = errors.New("not a player")
)

// GameState is the state tracked per game.
type GameState struct {
    ID      string
    Game    domain.Game
    X       string
    O       string
    Created time.Time
    Updated time.Time
}

// Seat returns the side held by playerID, or Empty for spectators.
func (gs *GameState) Seat(playerID string) domain.Cell {
    switch {
    case playerID == "":
        return domain.Empty
    case gs.X == playerID:
        return domain.X
    case gs.O == playerID:
        return domain.O
    }
    return domain.Empty
}

type subscriber struct {
    ch        chan []byte
    closeOnce sync.Once
}

func (s *subscriber) close() { s.closeOnce.Do(func() { close(s.ch) }) }

// Service manages games and subscribers. All game mutations are serialized
// by mu, which also guards the shared policy.
type Service struct {
    mu     sync.Mutex
    store  store.Store
    policy *domain.Policy
    log    *zap.Logger
    subs   map[string]map[*subscriber]struct{}
    render func(GameState) []byte
    now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithStore replaces the default in-memory store.
func WithStore(st store.Store) Option { return func(s *Service) { s.store = st } }

// WithSeed makes the computer's choices reproducible.
func WithSeed(seed int64) Option {
    return func(s *Service) { s.policy = domain.NewSeededPolicy(seed) }
}

// WithLogger sets the logger; nil keeps the no-op logger.
func WithLogger(l *zap.Logger) Option {
    return func(s *Service) {
        if l != nil {
            s.log = l
        }
    }
}

// WithRenderer sets the broadcast renderer.
func WithRenderer(renderer func(GameState) []byte) Option {
    return func(s *Service) { s.setRenderer(renderer) }
}

// NewService creates a service with an in-memory store and a renderer that encodes nothing useful.
func NewService(opts ...Option) *Service {
    s := &Service{
        store:  store.NewMemory(0),
        policy: domain.NewSeededPolicy(0),
        log:    zap.NewNop(),
        subs:   make(map[string]map[*subscriber]struct{}),
        now:    time.Now,
    }
    s.setRenderer(nil)
    for _, opt := range opts {
        opt(s)
    }
    return s
}

// NewServiceWithRenderer allows injecting a renderer for broadcast payloads.
func NewServiceWithRenderer(renderer func(GameState) []byte, opts ...Option) *Service {
    return NewService(append(opts, WithRenderer(renderer))...)
}

// SetRenderer replaces the broadcast renderer function.
func (s *Service) SetRenderer(renderer func(GameState) []byte) {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.setRenderer(renderer)
}

func (s *Service) setRenderer(renderer func(GameState) []byte) {
    if renderer == nil {
        renderer = func(gs GameState) []byte { return nil }
    }
    s.render = renderer
}

// Close releases the store.
func (s *Service) Close() error { return s.store.Close() }

// CreateGame creates and registers a new game.
func (s *Service) CreateGame(ctx context.Context, mode domain.Mode, d domain.Difficulty) (*GameState, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    now := s.now()
    gs := &GameState{ID: uuid.NewString(), Game: domain.NewGame(mode, d, s.policy), Created: now, Updated: now}
    if err := s.saveLocked(ctx, gs); err != nil {
        return nil, err
    }
    s.log.Info("game created",
        zap.String("game_id", gs.ID),
        zap.Stringer("mode", mode),
        zap.Stringer("difficulty", d),
    )
    return gs, nil
}

// Get returns a copy of the game state.
func (s *Service) Get(ctx context.Context, id string) (*GameState, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.loadLocked(ctx, id)
}

// Join assigns a seat to the player if available; returns Empty for spectators.
// In HumanVsAI games only the X seat exists.
func (s *Service) Join(ctx context.Context, id, playerID string) (domain.Cell, *GameState, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    gs, err := s.loadLocked(ctx, id)
    if err != nil {
        return domain.Empty, nil, err
    }
    side := gs.Seat(playerID)
    if side != domain.Empty || playerID == "" {
        return side, gs, nil
    }
    if gs.X == "" {
        gs.X = playerID
        side = domain.X
    } else if gs.O == "" && gs.Game.Mode == domain.HumanVsHuman {
        gs.O = playerID
        side = domain.O
    } else {
        // spectators leave the record untouched
        return domain.Empty, gs, nil
    }
    gs.Updated = s.now()
    if err := s.saveLocked(ctx, gs); err != nil {
        return domain.Empty, nil, err
    }
    return side, gs, nil
}

// Play validates seat and turn, applies a move at cell index, updates
// timestamps and broadcasts. In HumanVsAI games the computer's reply is
// part of the same call.
func (s *Service) Play(ctx context.Context, id, playerID string, index int) (*GameState, error) {
    return s.mutate(ctx, id, playerID, func(gs *GameState, seat domain.Cell) error {
        if gs.Game.Over() {
            return domain.ErrGameOver
        }
        if seat != gs.Game.Turn {
            return ErrNotYourTurn
        }
        before := gs.Game.Moves
        res, err := gs.Game.ApplyMove(index)
        if err != nil {
            return err
        }
        s.log.Debug("move applied",
            zap.String("game_id", gs.ID),
            zap.Stringer("player", seat),
            zap.Int("index", index),
            zap.Int("plies", gs.Game.Moves-before),
        )
        if res.Over() {
            s.log.Info("game finished",
                zap.String("game_id", gs.ID),
                zap.Stringer("result", res),
                zap.Int("moves", gs.Game.Moves),
            )
        }
        return nil
    })
}

// Reset starts a fresh board in the same game, keeping seats, mode and difficulty.
func (s *Service) Reset(ctx context.Context, id, playerID string) (*GameState, error) {
    return s.mutate(ctx, id, playerID, func(gs *GameState, seat domain.Cell) error {
        gs.Game.Reset()
        s.log.Info("game reset", zap.String("game_id", gs.ID), zap.Stringer("by", seat))
        return nil
    })
}

// SetDifficulty changes the computer's difficulty between games.
func (s *Service) SetDifficulty(ctx context.Context, id, playerID string, d domain.Difficulty) (*GameState, error) {
    return s.mutate(ctx, id, playerID, func(gs *GameState, seat domain.Cell) error {
        return gs.Game.SetDifficulty(d)
    })
}

// mutate loads a game, checks the caller holds a seat, applies fn, saves and
// broadcasts the new state. Nothing is saved when fn fails.
func (s *Service) mutate(ctx context.Context, id, playerID string, fn func(gs *GameState, seat domain.Cell) error) (*GameState, error) {
    s.mu.Lock()
    gs, err := s.loadLocked(ctx, id)
    if err != nil {
        s.mu.Unlock()
        return nil, err
    }
    seat := gs.Seat(playerID)
    if seat == domain.Empty {
        s.mu.Unlock()
        return nil, ErrNotAPlayer
    }
    if err := fn(gs, seat); err != nil {
        s.mu.Unlock()
        return nil, err
    }
    gs.Updated = s.now()
    if err := s.saveLocked(ctx, gs); err != nil {
        s.mu.Unlock()
        return nil, err
    }

    // Fan-out under mu so no unsubscribe can close a channel mid-send.
    // Sends never block; slow subscribers are closed and dropped.
    cp := *gs
    payload := s.render(cp)
    dropped := 0
    for sub := range s.subs[id] {
        select {
        case sub.ch <- payload:
        default:
            sub.close()
            delete(s.subs[id], sub)
            dropped++
        }
    }
    if set, ok := s.subs[id]; ok && len(set) == 0 {
        delete(s.subs, id)
    }
    s.mu.Unlock()

    if dropped > 0 {
        s.log.Debug("dropped slow subscribers", zap.String("game_id", id), zap.Int("count", dropped))
    }
    return &cp, nil
}

func (s *Service) loadLocked(ctx context.Context, id string) (*GameState, error) {
    rec, err := s.store.Load(ctx, id)
    if err != nil {
        return nil, fmt.Errorf("load game: %w", err)
    }
    if rec == nil {
        return nil, ErrNotFound
    }
    g, err := domain.Restore(rec.Game, s.policy)
    if err != nil {
        s.log.Error("stored game rejected", zap.String("game_id", id), zap.Error(err))
        return nil, fmt.Errorf("restore game %s: %w", id, err)
    }
    return &GameState{ID: rec.ID, Game: g, X: rec.X, O: rec.O, Created: rec.Created, Updated: rec.Updated}, nil
}

func (s *Service) saveLocked(ctx context.Context, gs *GameState) error {
    rec := &store.Record{
        ID:      gs.ID,
        Game:    gs.Game.Snapshot(),
        X:       gs.X,
        O:       gs.O,
        Created: gs.Created,
        Updated: gs.Updated,
    }
    if err := s.store.Save(ctx, rec); err != nil {
        return fmt.Errorf("save game: %w", err)
    }
    return nil
}

// Subscribe registers a subscriber for a game. Returns a channel and an unsubscribe func.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan []byte, func()) {
    s.mu.Lock()
    defer s.mu.Unlock()
    set := s.subs[id]
    if set == nil {
        set = make(map[*subscriber]struct{})
        s.subs[id] = set
    }
    sub := &subscriber{ch: make(chan []byte, 1)}
    set[sub] = struct{}{}

    unsubOnce := &sync.Once{}
    unsub := func() {
        unsubOnce.Do(func() {
            s.mu.Lock()
            defer s.mu.Unlock()
            if set, ok := s.subs[id]; ok {
                delete(set, sub)
                if len(set) == 0 {
                    delete(s.subs, id)
                }
            }
            sub.close()
        })
    }
    go func() {
        <-ctx.Done()
        unsub()
    }()
    return sub.ch, unsub
}
