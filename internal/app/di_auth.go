package app

import (
	authRepository "github.com/digital-codes/platansense/internal/auth/repository"
	authService "github.com/digital-codes/platansense/internal/auth/service"
	authUseCase "github.com/digital-codes/platansense/internal/auth/usecase"
)

// TokenService returns the bearer token service.
func (c *Container) TokenService() authService.TokenService {
	c.tokenServiceInit.Do(func() {
		c.tokenService = authService.NewTokenService(
			[]byte(c.config.TokenSigningKey),
			c.config.TokenRelatedTo,
			c.config.TokenIssuedBy,
		)
	})
	return c.tokenService
}

// ChallengeService returns the challenge transform service.
func (c *Container) ChallengeService() authService.ChallengeService {
	c.challengeInit.Do(func() {
		c.challengeService = authService.NewChallengeService()
	})
	return c.challengeService
}

// SessionRepository returns the challenge session repository.
func (c *Container) SessionRepository() (authUseCase.SessionRepository, error) {
	var err error
	c.sessionRepoInit.Do(func() {
		c.sessionRepo, err = authRepository.NewFilesystemSessionRepository(c.config.SessionDir)
		if err != nil {
			c.initErrors["sessionRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sessionRepo"]; exists {
		return nil, storedErr
	}
	return c.sessionRepo, nil
}

// AuthUseCase returns the handshake use case with metrics instrumentation.
func (c *Container) AuthUseCase() (authUseCase.AuthUseCase, error) {
	var err error
	c.authUCInit.Do(func() {
		var uc authUseCase.AuthUseCase
		uc, err = c.initAuthUseCase()
		if err != nil {
			c.initErrors["authUseCase"] = err
			return
		}
		c.authUC = uc
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["authUseCase"]; exists {
		return nil, storedErr
	}
	return c.authUC, nil
}

func (c *Container) initAuthUseCase() (authUseCase.AuthUseCase, error) {
	devices, err := c.DeviceRegistry()
	if err != nil {
		return nil, err
	}
	sessionRepo, err := c.SessionRepository()
	if err != nil {
		return nil, err
	}
	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, err
	}

	uc := authUseCase.NewAuthUseCase(
		devices,
		sessionRepo,
		c.TokenService(),
		c.ChallengeService(),
		c.Logger(),
	)
	return authUseCase.NewAuthUseCaseWithMetrics(uc, businessMetrics), nil
}
