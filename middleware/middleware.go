/*
 * Copyright (C) 2025 Nethesis S.r.l.
 * SPDX-License-Identifier: GPL-3.0-or-later
 */

package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/fatih/structs"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	jwt "github.com/appleboy/gin-jwt/v2"

	"github.com/nethesis/tol/command"
	"github.com/nethesis/tol/configuration"
	"github.com/nethesis/tol/logs"
	"github.com/nethesis/tol/models"
	"github.com/nethesis/tol/store"
	"github.com/nethesis/tol/utils"
)

// Users is the part of the data access wrapper used at login.
type Users interface {
	GetEncryptedPassword(ctx context.Context, login string) (*models.Credential, error)
	AuthenticateUser(ctx context.Context, login string, password string) (*models.SessionUser, error)
	RecordAccess(ctx context.Context, login string) error
}

const (
	identityKey = "usr"
	sessionKey  = "session"
)

func InitJWT(users Users) (*jwt.GinJWTMiddleware, error) {
	// define jwt middleware
	authMiddleware, errDefine := jwt.New(&jwt.GinJWTMiddleware{
		Realm:       configuration.Config.AppName,
		Key:         []byte(configuration.Config.Secret),
		Timeout:     configuration.Config.SessionTimeout,
		IdentityKey: sessionKey,
		Authenticator: func(c *gin.Context) (interface{}, error) {
			// check login credentials exists
			var loginVals models.LoginJson
			if err := c.ShouldBind(&loginVals); err != nil {
				return "", jwt.ErrMissingLoginValues
			}

			session, err := login(c.Request.Context(), users, loginVals.Username, loginVals.Password)
			if err != nil {
				utils.LogError(errors.Wrap(err, "[AUTH] login failed for "+loginVals.Username))
				return nil, jwt.ErrFailedAuthentication
			}
			return session, nil
		},
		PayloadFunc: func(data interface{}) jwt.MapClaims {
			if s, ok := data.(*models.UserSession); ok && s.User != nil {
				roles := make([]string, 0, len(s.User.Roles))
				for _, r := range s.User.Roles {
					roles = append(roles, r.Name)
				}
				return jwt.MapClaims{
					identityKey: s.Username,
					"jti":       s.ID,
					"name":      s.User.Name + " " + s.User.Surname,
					"roles":     roles,
				}
			}
			return jwt.MapClaims{}
		},
		IdentityHandler: func(c *gin.Context) interface{} {
			return sessionFromClaims(jwt.ExtractClaims(c))
		},
		Authorizator: func(data interface{}, c *gin.Context) bool {
			s, ok := data.(*models.UserSession)
			return ok && s != nil
		},
		LoginResponse: func(c *gin.Context, code int, token string, t time.Time) {
			c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "expire": t, "token": token})
		},
		LogoutResponse: func(c *gin.Context, code int) {
			if s := CurrentSession(c); s != nil {
				store.RemoveSession(s.ID)
				logs.Log("[INFO][AUTH] User " + s.Username + " logged out")
			}
			c.JSON(http.StatusOK, gin.H{"code": http.StatusOK})
		},
		Unauthorized: func(c *gin.Context, code int, message string) {
			// a token whose session is gone fails the Authorizator with a
			// 403, the client still has to log in again
			code = http.StatusUnauthorized
			c.JSON(code, structs.Map(models.StatusUnauthorized{
				Code:    code,
				Message: message,
				Data:    models.View{Page: command.PageLogin},
			}))
		},
		TokenLookup:   "header: Authorization, query: jwt, cookie: jwt",
		TokenHeadName: "Bearer",
		TimeFunc:      time.Now,
	})

	// check middleware errors
	if errDefine != nil {
		return nil, errors.Wrap(errDefine, "[AUTH] middleware definition error")
	}

	// init middleware
	if errInit := authMiddleware.MiddlewareInit(); errInit != nil {
		return nil, errors.Wrap(errInit, "[AUTH] middleware initialization error")
	}

	return authMiddleware, nil
}

// login checks the credentials, records the access and opens a session.
func login(ctx context.Context, users Users, username string, password string) (*models.UserSession, error) {
	if users == nil {
		return nil, store.ErrNoDatabase
	}

	cred, err := users.GetEncryptedPassword(ctx, username)
	if err != nil {
		return nil, err
	}
	if cred != nil && cred.Salt != "" {
		password = store.DigestPassword(password, cred.Salt)
	}

	user, err := users.AuthenticateUser(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if user == nil {
		logs.Log("[WARNING][AUTH] Wrong credentials for " + username)
		return nil, errors.New("wrong credentials")
	}

	// a failed access record does not block the login
	if err := users.RecordAccess(ctx, username); err != nil {
		utils.LogError(errors.Wrap(err, "[AUTH] record access"))
	}

	session := &models.UserSession{
		ID:        uuid.NewString(),
		Username:  username,
		User:      user,
		CreatedAt: time.Now().UTC(),
	}
	store.AddSession(session)
	logs.Log("[INFO][AUTH] User " + username + " logged in")

	return session, nil
}

// sessionFromClaims returns the live session named by the token, or nil
// when the token id is unknown or belongs to someone else.
func sessionFromClaims(claims jwt.MapClaims) *models.UserSession {
	jti, _ := claims["jti"].(string)
	if jti == "" {
		return nil
	}
	s, ok := store.GetSession(jti)
	if !ok {
		return nil
	}
	if username, _ := claims[identityKey].(string); username != s.Username {
		logs.Log("[SECURITY][AUTH] Token " + jti + " presented for a different user")
		return nil
	}
	return s
}

// OptionalIdentity attaches the session of a valid token, if any, and
// always lets the request through. Commands decide whether they need it.
func OptionalIdentity(mw *jwt.GinJWTMiddleware) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := mw.GetClaimsFromJWT(c); err == nil {
			if s := sessionFromClaims(claims); s != nil {
				c.Set(sessionKey, s)
			}
		}
		c.Next()
	}
}

// CurrentSession returns the session attached to the request.
func CurrentSession(c *gin.Context) *models.UserSession {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	s, _ := v.(*models.UserSession)
	return s
}

// Invalidate returns a function that drops the session of the request.
func Invalidate(c *gin.Context) func() {
	return func() {
		s := CurrentSession(c)
		if s == nil {
			return
		}
		if store.RemoveSession(s.ID) {
			logs.Log("[SECURITY][AUTH] Session of " + s.Username + " invalidated")
		}
		c.Set(sessionKey, (*models.UserSession)(nil))
	}
}
