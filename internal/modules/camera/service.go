package camera

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"dispocam/internal/adapter"
	domain "dispocam/internal/domain/camera"
	dispsync "dispocam/internal/modules/sync"
	"dispocam/internal/pkg/ident"
	jwtsvc "dispocam/internal/pkg/jwt"
)

// Service owns the camera lifecycle on this device: creation (local cache
// first, remote placement best-effort), lookup, and the guest join flow.
type Service struct {
	cache    domain.Repository
	rpc      adapter.Adapter // nil when not configured
	direct   adapter.Adapter // nil when not configured
	liveness dispsync.LivenessPort
	jwt      *jwtsvc.Service
}

func NewService(cache domain.Repository, rpc, direct adapter.Adapter, liveness dispsync.LivenessPort, jwt *jwtsvc.Service) *Service {
	if liveness == nil {
		liveness = dispsync.StaticLiveness(true)
	}
	return &Service{cache: cache, rpc: rpc, direct: direct, liveness: liveness, jwt: jwt}
}

// Create builds the camera, caches it locally, then tries to place it
// remotely. Remote placement failing is not an error: the guarantor creates
// the remote row lazily when the first photo referencing it is uploaded.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*CreateResponse, error) {
	cam := &domain.Camera{
		ID:                 ident.NewCameraID(),
		Name:               req.Name,
		EndTime:            req.EndDate.UTC(),
		RevealPolicy:       domain.RevealPolicy(req.RevealDelayType),
		CustomRevealAt:     req.CustomRevealAt,
		MaxPhotosPerPerson: req.MaxPhotosPerPerson,
		ParticipantLimit:   req.ParticipantLimit,
		AllowGalleryImport: req.AllowGalleryImport,
		Filter:             req.Filter,
		CreatedBy:          req.CreatedBy,
		CreatedAt:          time.Now().UTC(),
	}

	if req.JoinCode != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.JoinCode), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash join code: %w", err)
		}
		cam.JoinCodeHash = string(hash)
	}

	placement := s.placeRemote(ctx, cam)

	// Cached after placement so a collision-forced id regeneration never
	// leaves a stale id locally.
	if err := s.cache.Add(ctx, cam); err != nil {
		return nil, fmt.Errorf("cache camera: %w", err)
	}

	return &CreateResponse{Camera: cam, Placement: placement}, nil
}

// placeRemote tries the available adapters in priority order. A fresh id
// colliding remotely is regenerated, capped so a broken backend cannot spin
// us forever.
func (s *Service) placeRemote(ctx context.Context, cam *domain.Camera) string {
	targets := make([]adapter.Adapter, 0, 2)
	if s.rpc != nil && s.liveness.IsRPCReachable() {
		targets = append(targets, s.rpc)
	}
	if s.direct != nil {
		targets = append(targets, s.direct)
	}

	for _, a := range targets {
		for attempt := 0; attempt < adapter.CreateCameraRetries; attempt++ {
			_, err := a.CreateCamera(ctx, cam)
			if err == nil {
				return a.Name()
			}
			if errors.Is(err, adapter.ErrCollision) {
				cam.ID = ident.NewCameraID()
				continue
			}
			log.Printf("camera: %s placement failed id=%s: %v", a.Name(), cam.ID, err)
			break
		}
	}
	return "local"
}

// Get prefers the local cache and falls back to the remote adapters, caching
// a remote hit for the next lookup.
func (s *Service) Get(ctx context.Context, id string) (*domain.Camera, error) {
	if cam, err := s.cache.FindByID(ctx, id); err == nil {
		return cam, nil
	}

	for _, a := range []adapter.Adapter{s.rpc, s.direct} {
		if a == nil {
			continue
		}
		if a == s.rpc && !s.liveness.IsRPCReachable() {
			continue
		}
		cam, err := a.GetCamera(ctx, id)
		if err == nil {
			if cerr := s.cache.Add(ctx, cam); cerr != nil {
				log.Printf("camera: caching remote camera %s failed: %v", id, cerr)
			}
			return cam, nil
		}
	}
	return nil, domain.ErrCameraNotFound
}

// Join verifies the join code (when the camera has one) and issues a
// guest-session token scoped to the camera.
func (s *Service) Join(ctx context.Context, cameraID string, req JoinRequest) (*JoinResponse, error) {
	cam, err := s.Get(ctx, cameraID)
	if err != nil {
		return nil, err
	}

	if !cam.IsActiveAt(time.Now()) {
		return nil, domain.ErrCameraEnded
	}

	if cam.JoinCodeHash != "" {
		if bcrypt.CompareHashAndPassword([]byte(cam.JoinCodeHash), []byte(req.JoinCode)) != nil {
			return nil, domain.ErrBadJoinCode
		}
	}

	ownerID := "guest-" + ident.NewCameraID()
	token, err := s.jwt.GenerateGuestToken(ownerID, req.GuestName, cam.ID)
	if err != nil {
		return nil, fmt.Errorf("issue guest token: %w", err)
	}

	return &JoinResponse{Token: token, OwnerID: ownerID, Camera: cam}, nil
}
