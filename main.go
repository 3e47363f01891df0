/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package main

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/structs"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	"github.com/nethesis/tol/command"
	"github.com/nethesis/tol/configuration"
	"github.com/nethesis/tol/db"
	"github.com/nethesis/tol/logs"
	"github.com/nethesis/tol/methods"
	"github.com/nethesis/tol/middleware"
	"github.com/nethesis/tol/models"
	"github.com/nethesis/tol/store"
)

// application holds what the router needs, built once at startup.
type application struct {
	config   *configuration.Configuration
	registry *command.Registry
	users    middleware.Users
	pool     *sql.DB
}

func main() {
	// init logger
	logs.Init("tol")

	// init configuration
	if err := configuration.Init(); err != nil {
		fatal("configuration", err)
	}
	cfg := &configuration.Config

	// open database
	pool, dialect, err := db.Open(cfg)
	if err != nil {
		fatal("database", err)
	}
	defer pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if cfg.DBMigrate {
		if err := db.Migrate(ctx, pool, dialect); err != nil {
			fatal("migrations", err)
		}
	}

	wrapper, err := store.NewWrapper(pool, dialect)
	if err != nil {
		fatal("store", err)
	}

	// init sessions
	store.UserSessionInit()
	store.InitPersistence(cfg.SessionsDir)
	if err := store.LoadSessions(); err != nil {
		logs.Log("[WARNING][MAIN] Sessions not restored: " + err.Error())
	}

	// load surveys and commands
	catalog := store.NewSurveyCatalog(wrapper)
	if err := catalog.Refresh(ctx); err != nil {
		fatal("surveys", err)
	}

	items, err := wrapper.LookupCommands(ctx)
	if err != nil {
		fatal("commands", err)
	}
	registry, err := command.NewRegistry(items, &command.Deps{
		Storage:     func() (command.Storage, error) { return wrapper, nil },
		Surveys:     catalog,
		AppName:     cfg.AppName,
		EntityParam: cfg.EntityParam,
	})
	if err != nil {
		fatal("commands", err)
	}

	// create router
	router, err := createRouter(&application{
		config:   cfg,
		registry: registry,
		users:    wrapper,
		pool:     pool,
	})
	if err != nil {
		fatal("router", err)
	}

	// periodic jobs
	c := cron.New()
	c.AddFunc("@daily", methods.RefreshSurveys(catalog))
	c.AddFunc("@hourly", methods.PurgeExpiredSessions(cfg.SessionTimeout))
	c.Start()
	defer c.Stop()

	// run server
	if err := router.Run(cfg.ListenAddress); err != nil {
		fatal("server", err)
	}
}

func fatal(stage string, err error) {
	logs.Log("[CRITICAL][MAIN] " + stage + ": " + err.Error())
	os.Exit(1)
}

func createRouter(app *application) (*gin.Engine, error) {
	// disable log to stdout when running in release mode
	if gin.Mode() == gin.ReleaseMode {
		gin.DefaultWriter = io.Discard
	}

	// init routers
	router := gin.New()
	router.RedirectTrailingSlash = false
	router.Use(
		gin.LoggerWithWriter(gin.DefaultWriter),
		gin.Recovery(),
	)

	// add default compression
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// cors configuration only in debug mode GIN_MODE=debug (default)
	if gin.Mode() == gin.DebugMode {
		corsConf := cors.DefaultConfig()
		corsConf.AllowHeaders = []string{"Authorization", "Content-Type", "Accept"}
		corsConf.AllowAllOrigins = true
		router.Use(cors.New(corsConf))
	}

	mw, err := middleware.InitJWT(app.users)
	if err != nil {
		return nil, err
	}
	ctl := methods.NewController(app.registry, app.config)

	// define api group
	api := router.Group("/")

	api.POST("/login", mw.LoginHandler)
	api.POST("/logout", mw.MiddlewareFunc(), mw.LogoutHandler)
	api.GET("/health", methods.Health(app.pool))

	// pages, login is checked by each command
	optional := middleware.OptionalIdentity(mw)
	api.GET("/", optional, ctl.Handle)
	api.POST("/", optional, ctl.Handle)
	api.GET(methods.DataPath, optional, ctl.Handle)
	api.POST(methods.DataPath, optional, ctl.Handle)

	api.Use(mw.MiddlewareFunc())
	{
		api.GET("/me", methods.GetCurrentUser)
	}

	// handle missing endpoint
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, structs.Map(models.StatusNotFound{
			Code:    http.StatusNotFound,
			Message: "API not found",
			Data:    nil,
		}))
	})

	return router, nil
}
