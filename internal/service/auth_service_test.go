package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"mews-mentor/backend/config"
	"mews-mentor/backend/internal/dto"
	"mews-mentor/backend/internal/model"
	"mews-mentor/backend/pkg/jwt"
)

func setupTestAuthService() (AuthService, *testRepos, *jwt.Manager) {
	repos := newTestRepos()
	jwtMgr := jwt.NewManager(&config.AuthConfig{
		JWTSecret:               "test-secret",
		AccessTokenTTL:          15 * time.Minute,
		RefreshTokenTTLDefault:  24 * time.Hour,
		RefreshTokenTTLRemember: 30 * 24 * time.Hour,
	})
	svc := NewAuthService(repos.toRepository(), jwtMgr, nil, zap.NewNop())
	return svc, repos, jwtMgr
}

func seedAdminUser(repos *testRepos) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
	repos.user.users["admin-1"] = &model.User{
		UserID:       "admin-1",
		Name:         "管理员",
		Email:        "admin@example.com",
		PasswordHash: string(hash),
		Role:         "admin",
	}
}

// ════════════════════════════════════════════════════════════
// Login 测试
// ════════════════════════════════════════════════════════════

func TestAuthService_Login_Success(t *testing.T) {
	svc, repos, jwtMgr := setupTestAuthService()
	seedAdminUser(repos)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "admin@example.com",
		Password: "correct-password",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("登录应返回完整 token 对")
	}
	if resp.User.ID != "admin-1" || resp.User.Role != "admin" {
		t.Errorf("用户信息不匹配: %+v", resp.User)
	}

	claims, err := jwtMgr.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("AccessToken 应可解析: %v", err)
	}
	if claims.TokenType != "access" || claims.UserID != "admin-1" {
		t.Errorf("AccessToken 声明不匹配: %+v", claims)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, repos, _ := setupTestAuthService()
	seedAdminUser(repos)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "admin@example.com",
		Password: "wrong-password",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际=%v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc, _, _ := setupTestAuthService()

	// 未注册邮箱与密码错误返回同一个错误, 不泄露账号是否存在
	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际=%v", err)
	}
}

// ════════════════════════════════════════════════════════════
// Refresh / Logout 测试
// ════════════════════════════════════════════════════════════

func TestAuthService_Refresh_RejectsAccessToken(t *testing.T) {
	svc, repos, jwtMgr := setupTestAuthService()
	seedAdminUser(repos)

	// access token 不可用于刷新
	accessToken, _ := jwtMgr.GenerateAccessToken("admin-1", "admin")
	_, err := svc.Refresh(context.Background(), &dto.RefreshRequest{RefreshToken: accessToken})
	if !errors.Is(err, ErrInvalidRefresh) {
		t.Errorf("期望 ErrInvalidRefresh，实际=%v", err)
	}
}

func TestAuthService_Refresh_RejectsGarbage(t *testing.T) {
	svc, _, _ := setupTestAuthService()

	_, err := svc.Refresh(context.Background(), &dto.RefreshRequest{RefreshToken: "not-a-token"})
	if !errors.Is(err, ErrInvalidRefresh) {
		t.Errorf("期望 ErrInvalidRefresh，实际=%v", err)
	}
}

func TestAuthService_Refresh_WithoutRedis(t *testing.T) {
	svc, repos, jwtMgr := setupTestAuthService()
	seedAdminUser(repos)

	// Redis 降级 (rdb=nil) 时跳过黑名单校验, 刷新照常可用
	refreshToken, _ := jwtMgr.GenerateRefreshToken("admin-1", "admin", false)
	resp, err := svc.Refresh(context.Background(), &dto.RefreshRequest{RefreshToken: refreshToken})
	if err != nil {
		t.Fatalf("Redis 不可用时 Refresh 应降级成功: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("刷新应返回完整 token 对")
	}
}

func TestAuthService_Logout_WithoutRedis(t *testing.T) {
	svc, _, jwtMgr := setupTestAuthService()

	// Redis 降级时无法拉黑, 有效 token 登出也应直接成功
	refreshToken, _ := jwtMgr.GenerateRefreshToken("admin-1", "admin", false)
	if err := svc.Logout(context.Background(), &dto.LogoutRequest{RefreshToken: refreshToken}); err != nil {
		t.Errorf("Redis 不可用时 Logout 应降级成功: %v", err)
	}
}

func TestAuthService_Logout_ToleratesInvalidToken(t *testing.T) {
	svc, _, _ := setupTestAuthService()

	// 空 token 和无效 token 都视为登出成功
	if err := svc.Logout(context.Background(), &dto.LogoutRequest{}); err != nil {
		t.Errorf("空 token 登出应成功: %v", err)
	}
	if err := svc.Logout(context.Background(), &dto.LogoutRequest{RefreshToken: "expired-or-garbage"}); err != nil {
		t.Errorf("无效 token 登出应成功: %v", err)
	}
}
