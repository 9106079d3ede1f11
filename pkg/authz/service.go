package authz

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/casbin/casbin/v2"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"
	"github.com/sirupsen/logrus"

	"github.com/hulujobs/hulujobs-sdk/pkg/configuration"
)

type Config struct {
	ModelPath  string
	PolicyPath string
	Mode       Mode
	Logger     *logrus.Logger
}

func (c Config) validate() error {
	if strings.TrimSpace(c.ModelPath) == "" {
		return configError("model path is required")
	}
	if strings.TrimSpace(c.PolicyPath) == "" {
		return configError("policy path is required")
	}
	return nil
}

// Service provides helpers for enforcing authorization decisions.
type Service struct {
	cfg      Config
	enforcer *casbin.Enforcer
	logger   *logrus.Entry
	mu       sync.RWMutex
}

// NewService constructs a Service with the provided config.
func NewService(cfg Config) (*Service, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeShadow
	}

	var logger *logrus.Entry
	if cfg.Logger != nil {
		logger = cfg.Logger.WithField("component", "authz")
	} else {
		logger = logrus.WithField("component", "authz")
	}

	enf, err := casbin.NewEnforcer(cfg.ModelPath, fileadapter.NewAdapter(cfg.PolicyPath))
	if err != nil {
		return nil, fmt.Errorf("authz: failed to initialize enforcer: %w", err)
	}
	if err := enf.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("authz: failed to load policies: %w", err)
	}

	return &Service{
		cfg:      cfg,
		enforcer: enf,
		logger:   logger,
	}, nil
}

// Authorize returns an error if the request is denied.
func (s *Service) Authorize(ctx context.Context, req Request) error {
	switch s.cfg.Mode {
	case ModeDisabled:
		return nil
	case ModeEnforce:
		allowed, err := s.Check(ctx, req)
		if err != nil {
			return err
		}
		if !allowed {
			s.logger.WithContext(ctx).WithFields(logrus.Fields{
				"subject": req.Subject,
				"object":  req.Object,
				"action":  req.Action,
				"mode":    ModeEnforce,
			}).Warn("authz denied request")
			return forbiddenError(req)
		}
		return nil
	default:
		allowed, err := s.Check(ctx, req)
		if err != nil {
			return err
		}
		if !allowed {
			s.logger.WithContext(ctx).WithFields(logrus.Fields{
				"subject": req.Subject,
				"object":  req.Object,
				"action":  req.Action,
				"mode":    ModeShadow,
			}).Warn("authz shadow deny")
		}
		return nil
	}
}

// Check evaluates a request without returning an authorization error.
func (s *Service) Check(ctx context.Context, req Request) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res, err := s.enforcer.Enforce(req.Subject, req.Object, req.Action)
	if err != nil {
		return false, fmt.Errorf("authz: enforce failed: %w", err)
	}
	return res, nil
}

// ReloadPolicy reloads policy data from disk.
func (s *Service) ReloadPolicy(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.enforcer.LoadPolicy(); err != nil {
		return fmt.Errorf("authz: reload policy failed: %w", err)
	}
	s.logger.WithContext(ctx).Info("authz policy reloaded")
	return nil
}

var (
	defaultServiceOnce sync.Once
	defaultService     *Service
	defaultServiceErr  error
)

// Use returns a singleton Service configured via environment variables.
func Use() *Service {
	defaultServiceOnce.Do(func() {
		conf := configuration.Use()
		defaultService, defaultServiceErr = NewService(Config{
			ModelPath:  conf.Authz.ModelPath,
			PolicyPath: conf.Authz.PolicyPath,
			Mode:       ParseMode(conf.Authz.Mode),
			Logger:     conf.Logger(),
		})
		if defaultServiceErr != nil {
			panic(defaultServiceErr)
		}
	})
	return defaultService
}
