package service

import (
	"context"

	"CivicReport/internal/model"
	"CivicReport/internal/pkg"
	"CivicReport/internal/repository/mysql"
	"CivicReport/internal/repository/redis"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	repo     *mysql.UserRepository
	sessions *redis.SessionRepository
	cascade  *CascadeService
}

func NewUserService(db *gorm.DB, sessions *redis.SessionRepository, cascade *CascadeService) *UserService {
	return &UserService{
		repo:     &mysql.UserRepository{DB: db},
		sessions: sessions,
		cascade:  cascade,
	}
}

func (s *UserService) Register(ctx context.Context, username, password, email string) error {
	if username == "" || password == "" || email == "" {
		return pkg.Validation("username, password and email required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.repo.Create(ctx, &model.User{
		Username: username,
		Password: string(hash),
		Email:    email,
	})
}

func (s *UserService) Login(ctx context.Context, username, password string) (*pkg.Pair, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, pkg.NotFound("user not found")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, pkg.Forbidden("invalid password")
	}

	token, err := pkg.GeneratePair(user.ID)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.AddUserToken(ctx, user.ID, token.AccessToken); err != nil {
		return nil, err
	}
	return token, nil
}

func (s *UserService) Logout(ctx context.Context, userID uint64) error {
	return s.sessions.DeleteUserToken(ctx, userID)
}

func (s *UserService) Refresh(refreshToken string) (*pkg.Pair, error) {
	return pkg.Refresh(refreshToken)
}

// ChangePassword 登录态修改密码，成功后踢掉当前会话
func (s *UserService) ChangePassword(ctx context.Context, userID uint64, oldPassword, newPassword string) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)) != nil {
		return pkg.Forbidden("old password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePassword(ctx, user, string(hash)); err != nil {
		return err
	}
	return s.Logout(ctx, userID)
}

// DeleteAccount 注销账号：删用户行、踢会话，然后把清理交给级联编排。
func (s *UserService) DeleteAccount(ctx context.Context, userID uint64) error {
	if _, err := s.repo.FindByID(ctx, userID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, userID); err != nil {
		return err
	}
	_ = s.sessions.DeleteUserToken(ctx, userID)
	return s.cascade.DeleteUserAccount(ctx, userID)
}
