package utils

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"

	"github.com/Vjc5h3nt/EaseSpace/models"
	"github.com/Vjc5h3nt/EaseSpace/storage"
)

var bgContext = context.Background()

type AccessToken struct {
	ID    uint   `json:"id"`
	OrgID uint   `json:"orgID"`
	Role  string `json:"role"`
}

func CreateTokenPair(id uint) (*jwt.TokenPair, error) {
	accessTokenSigner := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), 24*time.Hour)
	refreshTokenSigner := jwt.NewSigner(jwt.HS256, os.Getenv("REFRESH_TOKEN_SECRET"), 365*24*time.Hour)

	userID := strconv.FormatUint(uint64(id), 10)

	refreshClaims := jwt.Claims{Subject: userID}

	// Load role and org for embedding into the access token
	var u models.User
	role := "user"
	var orgID uint
	if err := storage.DB.Select("id, org_id, role").First(&u, id).Error; err == nil {
		if u.Role != "" {
			role = u.Role
		}
		orgID = u.OrgID
	}

	accessTokenClaims := AccessToken{
		ID:    id,
		OrgID: orgID,
		Role:  role,
	}

	accessToken, err := accessTokenSigner.Sign(accessTokenClaims)
	if err != nil {
		return nil, err
	}

	refreshToken, err := refreshTokenSigner.Sign(refreshClaims)
	if err != nil {
		return nil, err
	}

	var tokenPair jwt.TokenPair
	tokenPair.AccessToken = accessToken
	tokenPair.RefreshToken = refreshToken

	storage.Redis.Set(bgContext, string(refreshToken), "true", 365*24*time.Hour+5*time.Minute)

	return &tokenPair, nil
}

func RefreshToken(ctx iris.Context) {
	token := jwt.GetVerifiedToken(ctx)
	tokenStr := string(token.Token)
	if _, err := storage.Redis.Get(bgContext, tokenStr).Result(); err != nil {
		CreateNotFound(ctx)
		return
	}

	id, err := strconv.ParseUint(token.StandardClaims.Subject, 10, 32)
	if err != nil {
		CreateInternalServerError(ctx)
		return
	}

	tokenPair, err := CreateTokenPair(uint(id))
	if err != nil {
		CreateInternalServerError(ctx)
		return
	}

	// Rotate: the old refresh token is no longer accepted
	storage.Redis.Del(bgContext, tokenStr)

	ctx.JSON(tokenPair)
}
