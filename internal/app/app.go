package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/mdpreview/mdpreview/internal/config"
	"github.com/mdpreview/mdpreview/internal/db"
	"github.com/mdpreview/mdpreview/internal/markdown"
	"github.com/mdpreview/mdpreview/internal/repository"
	"github.com/mdpreview/mdpreview/internal/service"
)

type App struct {
	Cfg          *config.Config
	DB           *sqlx.DB
	AuthService  *service.AuthService
	UserService  *service.UserService
	FileService  *service.FileService
	GroupService *service.GroupService
	Markdown     *markdown.Parser
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	fileRepository := repository.NewFileRepository(database)
	groupRepository := repository.NewGroupRepository(database)

	// Services
	authService := service.NewAuthService(
		userRepository,
		cfg.JWTSecret,
		cfg.JWTExpiry,
		cfg.IsProduction(),
	)
	userService := service.NewUserService(userRepository)
	fileService := service.NewFileService(fileRepository, groupRepository)
	groupService := service.NewGroupService(groupRepository, fileRepository)

	return &App{
		Cfg:          cfg,
		DB:           database,
		AuthService:  authService,
		UserService:  userService,
		FileService:  fileService,
		GroupService: groupService,
		Markdown:     markdown.NewParser(),
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
