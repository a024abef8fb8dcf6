package application

import (
	"context"

	"github.com/KOSASIH/nexus-revoluter/internal/domain"
)

// GrantRole adds an account to a role. Only DEFAULT_ADMIN may manage
// role membership.
func (s *Service) GrantRole(ctx context.Context, actor Actor, account string, role domain.Role) error {
	if err := requireCaller(actor); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireRole(ctx, actor.SubjectID, domain.RoleDefaultAdmin); err != nil {
		return err
	}
	if account == "" {
		return domain.ErrInvalidInput
	}
	if !domain.ValidRole(role) {
		return domain.ErrInvalidRole
	}
	if err := s.roles.Grant(ctx, account, role); err != nil {
		return err
	}
	return s.enqueueRoleChange(ctx, domain.EventRoleGranted, actor.SubjectID, account, role, actor.RequestID, s.nowFn())
}

// RevokeRole removes an account from a role.
func (s *Service) RevokeRole(ctx context.Context, actor Actor, account string, role domain.Role) error {
	if err := requireCaller(actor); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireRole(ctx, actor.SubjectID, domain.RoleDefaultAdmin); err != nil {
		return err
	}
	if account == "" {
		return domain.ErrInvalidInput
	}
	if !domain.ValidRole(role) {
		return domain.ErrInvalidRole
	}
	if err := s.roles.Revoke(ctx, account, role); err != nil {
		return err
	}
	return s.enqueueRoleChange(ctx, domain.EventRoleRevoked, actor.SubjectID, account, role, actor.RequestID, s.nowFn())
}

// HasRole is a read-only membership check.
func (s *Service) HasRole(ctx context.Context, account string, role domain.Role) (bool, error) {
	return s.roles.Has(ctx, account, role)
}

// Pause flips the global switch; every mutating custody and staking
// operation rejects with a state error while set.
func (s *Service) Pause(ctx context.Context, actor Actor) error {
	return s.setPaused(ctx, actor, true)
}

// Unpause clears the global switch.
func (s *Service) Unpause(ctx context.Context, actor Actor) error {
	return s.setPaused(ctx, actor, false)
}

func (s *Service) setPaused(ctx context.Context, actor Actor, paused bool) error {
	if err := requireCaller(actor); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireRole(ctx, actor.SubjectID, domain.RoleAdmin); err != nil {
		return err
	}
	if err := s.settings.SetPaused(ctx, paused); err != nil {
		return err
	}
	eventType := domain.EventPaused
	if !paused {
		eventType = domain.EventUnpaused
	}
	return s.enqueuePauseState(ctx, eventType, actor.SubjectID, paused, actor.RequestID, s.nowFn())
}

// Paused reports the switch state.
func (s *Service) Paused(ctx context.Context) (bool, error) {
	return s.settings.Paused(ctx)
}
