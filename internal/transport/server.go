package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/arenacore/internal/arena"
	"github.com/udisondev/arenacore/internal/entitystore"
	"github.com/udisondev/arenacore/internal/seed"
	"github.com/udisondev/arenacore/internal/worldmap"
)

// Config holds the transport edge's own tuning knobs, distinct from the
// simulation Config the GameInstance carries.
type Config struct {
	ListenAddr string
	TickRateHz float64
}

// DefaultConfig returns this build's transport defaults.
func DefaultConfig() Config {
	return Config{ListenAddr: ":3000", TickRateHz: 20}
}

const (
	cmdJoin = iota
	cmdInput
	cmdAbility
	cmdLeave
)

// command is everything the I/O goroutines hand to the simulation
// thread. Only the game loop goroutine ever reads gi/sessions state that
// these commands touch, per spec §5's single-simulation-thread model.
type command struct {
	kind int
	sess *Session

	class entitystore.CharacterClass
	resp  chan *entitystore.Player

	input entitystore.InputRecord

	abilityType  entitystore.AttackType
	abilityAngle float64
	abilityHasAim bool
}

// Server is the socket handler and fixed-tick game loop described in spec
// §4.11. It owns no simulation state itself — all of it lives in the
// GameInstance — and touches the instance only from the single game-loop
// goroutine, receiving inbound work through inbox the way spec §5
// prescribes for I/O-pool-to-simulation-thread handoff.
type Server struct {
	gi   *arena.GameInstance
	mask *worldmap.CollisionMask
	seed *seed.Authority
	cfg  Config

	upgrader websocket.Upgrader

	mu       sync.RWMutex
	sessions map[string]*Session

	inbox chan command

	idCounter atomic.Uint64
	clockMs   atomic.Int64
}

// NewServer wires a transport edge around an already-constructed
// GameInstance.
func NewServer(gi *arena.GameInstance, mask *worldmap.CollisionMask, seedAuthority *seed.Authority, cfg Config) *Server {
	return &Server{
		gi:       gi,
		mask:     mask,
		seed:     seedAuthority,
		cfg:      cfg,
		sessions: make(map[string]*Session),
		inbox:    make(chan command, 1024),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Addr returns the address this server is configured to listen on.
func (s *Server) Addr() string {
	return s.cfg.ListenAddr
}

// Run starts the HTTP upgrade endpoint and the fixed-tick game loop, and
// blocks until ctx is canceled or either fails.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)

	httpSrv := &http.Server{Addr: s.cfg.ListenAddr, Handler: mux}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("transport listening", "addr", s.cfg.ListenAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		s.gameLoop(gctx)
		return nil
	})

	return g.Wait()
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}

	id := fmt.Sprintf("player-%d", s.idCounter.Add(1))
	sess := newSession(id, conn)

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	go sess.writePump()

	sess.readPump(s.dispatch)

	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()

	sess.mu.Lock()
	joined := sess.joined
	sess.mu.Unlock()

	sess.Close()
	if joined {
		s.inbox <- command{kind: cmdLeave, sess: sess}
	}
}

// dispatch runs on the session's own read-pump goroutine. ping is
// answered immediately, outside the tick loop, per spec §4.11; every
// other message type is handed to the simulation thread via inbox.
func (s *Server) dispatch(sess *Session, env envelope) {
	switch env.Type {
	case "ping":
		var p pingPayload
		if err := unmarshalPayload(env, &p); err != nil {
			return
		}
		frame, err := encode("pong", pongPayload{
			Sequence:   p.Sequence,
			ClientTime: p.ClientTime,
			ServerTime: s.clockMs.Load(),
		})
		if err == nil {
			sess.send("pong", frame)
		}
	case "class_select":
		var p classSelectPayload
		if err := unmarshalPayload(env, &p); err != nil {
			return
		}
		sess.mu.Lock()
		if !sess.joined {
			sess.className = entitystore.CharacterClass(p.ClassName)
		}
		sess.mu.Unlock()
	case "ready":
		sess.mu.Lock()
		alreadyJoined := sess.joined
		class := sess.className
		sess.mu.Unlock()
		if alreadyJoined {
			return
		}
		if class == "" {
			class = entitystore.ClassBladedancer
		}
		resp := make(chan *entitystore.Player, 1)
		s.inbox <- command{kind: cmdJoin, sess: sess, class: class, resp: resp}
		player := <-resp
		s.completeJoin(sess, player)
	case "input":
		sess.mu.Lock()
		joined := sess.joined
		sess.mu.Unlock()
		if !joined {
			return
		}
		var p inputPayload
		if err := unmarshalPayload(env, &p); err != nil {
			return
		}
		s.inbox <- command{kind: cmdInput, sess: sess, input: entitystore.InputRecord{
			Sequence:  p.Sequence,
			Timestamp: p.Timestamp,
			Keys:      p.Keys,
			Facing:    entitystore.Facing(p.Facing),
			DeltaTime: p.DeltaTime,
		}}
	case "ability_request":
		sess.mu.Lock()
		joined := sess.joined
		sess.mu.Unlock()
		if !joined {
			return
		}
		var p abilityRequestPayload
		if err := unmarshalPayload(env, &p); err != nil {
			return
		}
		cmd := command{kind: cmdAbility, sess: sess, abilityType: entitystore.AttackType(p.Type)}
		if p.Angle != nil {
			cmd.abilityAngle = *p.Angle
			cmd.abilityHasAim = true
		}
		s.inbox <- cmd
	default:
		// unrecognized message type: dropped per spec §9's closed schema.
	}
}

func unmarshalPayload(env envelope, out any) error {
	if len(env.Data) == 0 {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}

// completeJoin runs on the read-pump goroutine after the simulation
// thread has registered the player; it sends the one-time world_init
// handshake and marks the session joined.
func (s *Server) completeJoin(sess *Session, player *entitystore.Player) {
	sess.mu.Lock()
	sess.playerID = player.ID
	sess.joined = true
	sess.mu.Unlock()

	ref := fmt.Sprintf("mask-%dx%d-%.0f", s.mask.Width(), s.mask.Height(), s.mask.TileSize())
	frame, err := encode("world_init", worldInitPayload{
		Seed:             s.seed.Value(),
		TileSize:         s.mask.TileSize(),
		Width:            s.mask.Width(),
		Height:           s.mask.Height(),
		CollisionMaskRef: ref,
	})
	if err == nil {
		sess.send("world_init", frame)
	}

	s.broadcast("player_joined", playerJoinedPayload{PlayerID: player.ID, ClassName: string(player.Class)})
}

// gameLoop runs the fixed-tick simulation per spec §4.11: snapshot now,
// clamp the catch-up delta to 5x the target tick, run the full pipeline,
// then broadcast the results. Grounded on Mikko-Finell's RunSimulation
// ticker-and-clamp idiom.
func (s *Server) gameLoop(ctx context.Context) {
	targetDt := time.Duration(float64(time.Second) / s.cfg.TickRateHz)
	maxDt := 5 * targetDt

	ticker := time.NewTicker(targetDt)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			if dt > maxDt {
				dt = maxDt
			}
			dtMs := float64(dt) / float64(time.Millisecond)

			s.drainInbox()
			result := s.gi.Tick(dtMs)
			s.clockMs.Store(result.Now)
			s.broadcastTick(result)
		}
	}
}

func (s *Server) drainInbox() {
	for {
		select {
		case cmd := <-s.inbox:
			s.apply(cmd)
		default:
			return
		}
	}
}

func (s *Server) apply(cmd command) {
	switch cmd.kind {
	case cmdJoin:
		player := s.gi.AddPlayer(cmd.sess.id, cmd.class)
		if cmd.resp != nil {
			cmd.resp <- player
		}
	case cmdInput:
		s.gi.EnqueueInput(cmd.sess.id, cmd.input)
	case cmdAbility:
		s.gi.RequestAbility(cmd.sess.id, cmd.abilityType, cmd.abilityAngle, cmd.abilityHasAim)
	case cmdLeave:
		s.gi.RemovePlayer(cmd.sess.id)
		s.broadcast("player_left", playerLeftPayload{PlayerID: cmd.sess.id})
	}
}

// broadcastTick fans one tick's worth of per-client state payloads and
// every reliable event the tick produced out to connected sessions.
func (s *Server) broadcastTick(result arena.TickResult) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	projectiles := s.projectileRecords()

	for playerID, records := range result.PerClientRecords {
		sess, ok := s.sessions[playerID]
		if !ok {
			continue
		}
		player, ok := s.gi.Player(playerID)
		if !ok {
			continue
		}

		entities := make([]entityRecordPayload, 0, len(records))
		for _, r := range records {
			entities = append(entities, entityRecordPayload{
				ID:         r.EntityID,
				Kind:       entityKind(r.EntityID),
				UpdateType: string(r.Kind),
				Fields:     r.Fields,
			})
		}

		frame, err := encode("state", statePayload{
			Tick:             result.Now,
			ServerTime:       result.Now,
			LastProcessedSeq: player.LastProcessedSeq,
			Entities:         entities,
			Projectiles:      projectiles,
		})
		if err != nil {
			continue
		}
		sess.send("state", frame)
	}

	despawned := make(map[string]bool, len(result.DespawnEvents))
	for _, d := range result.DespawnEvents {
		despawned[d.EntityID] = true
		s.broadcastLocked("entity_despawn", entityDespawnPayload{ID: d.EntityID, Kind: d.Kind})
	}

	for _, e := range result.SpawnEvents {
		m := e.Monster
		s.broadcastLocked("entity_spawn", entitySpawnPayload{
			ID:   m.ID,
			Kind: "monster",
			Fields: map[string]any{
				"position": [2]float64{m.Position.X, m.Position.Y},
				"facing":   string(m.Facing),
				"hp":       m.HP,
				"type":     m.Type,
			},
		})
	}

	for _, pe := range result.PowerupEvents {
		if despawned[pe.Powerup.ID] {
			continue
		}
		s.broadcastLocked("entity_spawn", entitySpawnPayload{
			ID:   pe.Powerup.ID,
			Kind: "powerup",
			Fields: map[string]any{
				"position":  [2]float64{pe.Powerup.Position.X, pe.Powerup.Position.Y},
				"type":      string(pe.Powerup.Type),
				"expiresAt": pe.Powerup.ExpiresAt,
			},
		})
	}

	for _, t := range result.TelegraphEvents {
		s.broadcastLocked("ability_telegraph", abilityTelegraphPayload{MonsterID: t.MonsterID, Facing: string(t.Facing)})
	}

	for _, d := range result.DamageEvents {
		s.broadcastLocked("damage_event", damageEventPayload{TargetID: d.TargetID, AttackerID: d.AttackerID, Amount: d.Amount})
	}

	for _, d := range result.DeathEvents {
		if !d.IsPlayer {
			continue
		}
		s.broadcastLocked("player_died", playerDiedPayload{PlayerID: d.TargetID, AttackerID: d.AttackerID})
	}

	for _, l := range result.LevelUpEvents {
		s.broadcastLocked("level_up", levelUpPayload{PlayerID: l.PlayerID, NewLevel: l.NewLevel})
	}

	for _, r := range result.RespawnEvents {
		s.broadcastLocked("player_respawned", playerRespawnedPayload{PlayerID: r.PlayerID})
	}

	for _, id := range result.DisconnectedIDs {
		if sess, ok := s.sessions[id]; ok {
			sess.Close()
		}
	}
}

func (s *Server) projectileRecords() []projectileRecordPayload {
	projectiles := s.gi.Projectiles()
	out := make([]projectileRecordPayload, 0, len(projectiles))
	for _, p := range projectiles {
		out = append(out, projectileRecordPayload{
			ID:        p.ID,
			OwnerID:   p.OwnerID,
			OwnerKind: string(p.OwnerKind),
			X:         p.Position.X,
			Y:         p.Position.Y,
			Angle:     p.Angle,
			EffectTag: p.EffectTag,
		})
	}
	return out
}

// broadcast acquires the read lock before fanning an event out to every
// connected session.
func (s *Server) broadcast(msgType string, payload any) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.broadcastLocked(msgType, payload)
}

// broadcastLocked assumes the caller already holds s.mu for reading. Each
// session's send routes the frame through the Event Reliability
// Classifier rather than assuming every broadcast event is reliable.
func (s *Server) broadcastLocked(msgType string, payload any) {
	frame, err := encode(msgType, payload)
	if err != nil {
		slog.Error("encoding broadcast message", "type", msgType, "error", err)
		return
	}
	for _, sess := range s.sessions {
		sess.send(msgType, frame)
	}
}

// entityKind classifies an id by the nextXID naming convention
// GameInstance uses ("monster-N", "powerup-N"); anything else is a
// player, since player ids come from connection sessions instead.
func entityKind(id string) string {
	switch {
	case strings.HasPrefix(id, "monster-"):
		return "monster"
	case strings.HasPrefix(id, "powerup-"):
		return "powerup"
	default:
		return "player"
	}
}
