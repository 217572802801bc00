package app

import (
	"fmt"
	"sync"

	"github.com/allisson/authgate/internal/database"
	userHTTP "github.com/allisson/authgate/internal/user/http"
	userRepository "github.com/allisson/authgate/internal/user/repository"
	userUseCase "github.com/allisson/authgate/internal/user/usecase"
)

// userComponents holds the lazily built user management dependencies.
type userComponents struct {
	userRepository userUseCase.UserRepository
	roleRepository userUseCase.RoleRepository
	userUseCase    userUseCase.UserUseCase
	roleUseCase    userUseCase.RoleUseCase
	seedUseCase    userUseCase.SeedUseCase
	userHandler    *userHTTP.UserHandler
	adminHandler   *userHTTP.AdminHandler

	userRepositoryInit sync.Once
	roleRepositoryInit sync.Once
	userUseCaseInit    sync.Once
	roleUseCaseInit    sync.Once
	seedUseCaseInit    sync.Once
	userHandlerInit    sync.Once
	adminHandlerInit   sync.Once
}

// UserRepository returns the user repository for the configured database driver.
func (c *Container) UserRepository() (userUseCase.UserRepository, error) {
	var err error
	c.userRepositoryInit.Do(func() {
		c.userRepository, err = c.initUserRepository()
		if err != nil {
			c.setInitError("userRepository", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("userRepository"); storedErr != nil {
		return nil, storedErr
	}
	return c.userRepository, nil
}

// RoleRepository returns the role repository for the configured database driver.
func (c *Container) RoleRepository() (userUseCase.RoleRepository, error) {
	var err error
	c.roleRepositoryInit.Do(func() {
		c.roleRepository, err = c.initRoleRepository()
		if err != nil {
			c.setInitError("roleRepository", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("roleRepository"); storedErr != nil {
		return nil, storedErr
	}
	return c.roleRepository, nil
}

// UserUseCase returns the user management use case.
func (c *Container) UserUseCase() (userUseCase.UserUseCase, error) {
	var err error
	c.userUseCaseInit.Do(func() {
		c.userUseCase, err = c.initUserUseCase()
		if err != nil {
			c.setInitError("userUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("userUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.userUseCase, nil
}

// RoleUseCase returns the role catalog use case.
func (c *Container) RoleUseCase() (userUseCase.RoleUseCase, error) {
	var err error
	c.roleUseCaseInit.Do(func() {
		c.roleUseCase, err = c.initRoleUseCase()
		if err != nil {
			c.setInitError("roleUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("roleUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.roleUseCase, nil
}

// SeedUseCase returns the use case creating default roles and the default admin.
func (c *Container) SeedUseCase() (userUseCase.SeedUseCase, error) {
	var err error
	c.seedUseCaseInit.Do(func() {
		c.seedUseCase, err = c.initSeedUseCase()
		if err != nil {
			c.setInitError("seedUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("seedUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.seedUseCase, nil
}

// UserHandler returns the HTTP handler for /api/users.
func (c *Container) UserHandler() (*userHTTP.UserHandler, error) {
	var err error
	c.userHandlerInit.Do(func() {
		var useCase userUseCase.UserUseCase
		useCase, err = c.UserUseCase()
		if err != nil {
			err = fmt.Errorf("failed to get user use case for user handler: %w", err)
			c.setInitError("userHandler", err)
			return
		}
		c.userHandler = userHTTP.NewUserHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("userHandler"); storedErr != nil {
		return nil, storedErr
	}
	return c.userHandler, nil
}

// AdminHandler returns the HTTP handler for /api/admin.
func (c *Container) AdminHandler() (*userHTTP.AdminHandler, error) {
	var err error
	c.adminHandlerInit.Do(func() {
		c.adminHandler, err = c.initAdminHandler()
		if err != nil {
			c.setInitError("adminHandler", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("adminHandler"); storedErr != nil {
		return nil, storedErr
	}
	return c.adminHandler, nil
}

func (c *Container) initUserRepository() (userUseCase.UserRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for user repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverPostgres:
		return userRepository.NewPostgreSQLUserRepository(db), nil
	case database.DriverMySQL:
		return userRepository.NewMySQLUserRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initRoleRepository() (userUseCase.RoleRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for role repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverPostgres:
		return userRepository.NewPostgreSQLRoleRepository(db), nil
	case database.DriverMySQL:
		return userRepository.NewMySQLRoleRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initUserUseCase() (userUseCase.UserUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for user use case: %w", err)
	}
	users, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for user use case: %w", err)
	}
	roles, err := c.RoleRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get role repository for user use case: %w", err)
	}

	useCase := userUseCase.NewUserUseCase(txManager, users, roles, c.PasswordService())
	if !c.config.MetricsEnabled {
		return useCase, nil
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for user use case: %w", err)
	}
	return userUseCase.NewUserUseCaseWithMetrics(useCase, businessMetrics), nil
}

func (c *Container) initRoleUseCase() (userUseCase.RoleUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for role use case: %w", err)
	}
	roles, err := c.RoleRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get role repository for role use case: %w", err)
	}

	useCase := userUseCase.NewRoleUseCase(txManager, roles)
	if !c.config.MetricsEnabled {
		return useCase, nil
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for role use case: %w", err)
	}
	return userUseCase.NewRoleUseCaseWithMetrics(useCase, businessMetrics), nil
}

func (c *Container) initSeedUseCase() (userUseCase.SeedUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for seed use case: %w", err)
	}
	users, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for seed use case: %w", err)
	}
	roles, err := c.RoleRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get role repository for seed use case: %w", err)
	}
	return userUseCase.NewSeedUseCase(txManager, users, roles, c.PasswordService(), c.Logger()), nil
}

func (c *Container) initAdminHandler() (*userHTTP.AdminHandler, error) {
	users, err := c.UserUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get user use case for admin handler: %w", err)
	}
	roles, err := c.RoleUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get role use case for admin handler: %w", err)
	}
	return userHTTP.NewAdminHandler(users, roles, c.Logger()), nil
}
