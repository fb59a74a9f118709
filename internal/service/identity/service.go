package identity

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/clinicore/portal-api/internal/model"
	"github.com/clinicore/portal-api/internal/repository"
	"github.com/clinicore/portal-api/pkg/logger"
	"github.com/clinicore/portal-api/pkg/messaging"
	"github.com/clinicore/portal-api/pkg/metrics"
)

// Service resolves sessions into identities and owns the process-wide
// identity slot. It is the single writer of that slot; consumers read
// through Current or Subscribe. Resolution failures are collapsed into
// a nil identity so callers only ever see "identity or not".
type Service struct {
	profiles repository.ProfileRepository
	roles    repository.RoleRepository
	broker   messaging.Broker
	logger   *logger.Logger
	metrics  *metrics.Metrics

	mu      sync.RWMutex
	current *model.Identity
	// latest is the subject id of the most recently observed session;
	// uuid.Nil means signed out. A resolution only commits if its
	// subject still matches, so a slow lookup for an old session can
	// never overwrite a newer one.
	latest  uuid.UUID
	subs    map[int]chan *model.Identity
	nextSub int
}

func NewService(profiles repository.ProfileRepository, roles repository.RoleRepository,
	broker messaging.Broker, l *logger.Logger, m *metrics.Metrics) *Service {
	return &Service{
		profiles: profiles,
		roles:    roles,
		broker:   broker,
		logger:   l,
		metrics:  m,
		subs:     make(map[int]chan *model.Identity),
	}
}

// Resolve records sess as the latest observed session, performs the
// profile and role lookups, and commits the result to the shared slot.
// A nil sess clears the slot. The returned identity is nil when there is
// no session or when a lookup failed.
func (s *Service) Resolve(ctx context.Context, sess *model.Session) *model.Identity {
	if sess == nil {
		s.mu.Lock()
		s.latest = uuid.Nil
		s.mu.Unlock()
		s.commit(uuid.Nil, nil)
		return nil
	}

	s.mu.Lock()
	s.latest = sess.UserID
	s.mu.Unlock()

	ident := s.Lookup(ctx, sess)
	s.commit(sess.UserID, ident)
	return ident
}

// Lookup builds the identity projection for sess without touching the
// shared slot. The access guard uses it per request.
func (s *Service) Lookup(ctx context.Context, sess *model.Session) *model.Identity {
	if sess == nil {
		return nil
	}

	ident := &model.Identity{
		ID:    sess.UserID,
		Email: sess.Email,
		Name:  sess.Email,
		Role:  model.RolePatient,
	}

	profile, err := s.profiles.GetByUserID(ctx, sess.UserID)
	switch {
	case err == nil:
		if profile.Name != "" {
			ident.Name = profile.Name
		}
		ident.Avatar = profile.AvatarURL
		ident.Phone = profile.Phone
	case errors.Is(err, repository.ErrNotFound):
		// no profile yet, keep the email fallback
	default:
		s.logger.Error(err, "profile lookup failed", "user_id", sess.UserID.String())
		return nil
	}

	role, err := s.roles.GetByUserID(ctx, sess.UserID)
	switch {
	case err == nil:
		if role.Valid() {
			ident.Role = role
		}
	case errors.Is(err, repository.ErrNotFound):
		// missing role row defaults to patient
	default:
		s.logger.Error(err, "role lookup failed", "user_id", sess.UserID.String())
		return nil
	}

	return ident
}

// Current returns the last committed identity, or nil when signed out.
func (s *Service) Current() *model.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Subscribe returns a channel receiving identity replacements and a
// cancel function. Slow consumers miss intermediate states rather than
// blocking the resolver.
func (s *Service) Subscribe() (<-chan *model.Identity, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan *model.Identity, 1)
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

func (s *Service) commit(subject uuid.UUID, ident *model.Identity) {
	s.mu.Lock()
	if subject != s.latest {
		// stale resolution for a session that has since changed
		s.mu.Unlock()
		return
	}
	s.current = ident
	subs := make([]chan *model.Identity, 0, len(s.subs))
	for _, ch := range s.subs {
		subs = append(subs, ch)
	}
	s.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- ident:
		default:
			// drop: subscriber still holds the previous update
		}
	}
}

// Watch consumes session lifecycle events from the broker and
// re-resolves on each. It returns once the subscription is established;
// consumption runs until ctx is cancelled.
func (s *Service) Watch(ctx context.Context) error {
	msgs, err := s.broker.Subscribe(ctx, model.SessionChannel)
	if err != nil {
		return err
	}

	// settle the slot before any event arrives
	s.Resolve(ctx, nil)

	go func() {
		for payload := range msgs {
			var ev model.SessionEvent
			if err := json.Unmarshal(payload, &ev); err != nil {
				s.logger.Error(err, "invalid session event")
				continue
			}

			s.metrics.ObserveSessionEvent(ev.Type)

			if ev.Type == model.SessionSignedOut {
				s.Resolve(ctx, nil)
				continue
			}
			s.Resolve(ctx, &model.Session{UserID: ev.UserID, Email: ev.Email})
		}
	}()

	return nil
}
