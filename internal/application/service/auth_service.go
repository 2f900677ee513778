package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/retailpos-api/internal/domain/entity"
	"github.com/sangkips/retailpos-api/internal/domain/repository"
	"github.com/sangkips/retailpos-api/pkg/apperror"
	"github.com/sangkips/retailpos-api/pkg/logger"
	"github.com/sangkips/retailpos-api/pkg/utils"
)

// AuthService handles operator authentication
type AuthService struct {
	operatorRepo repository.OperatorRepository
	branchRepo   repository.BranchRepository
	jwtManager   *utils.JWTManager
}

// NewAuthService creates a new auth service
func NewAuthService(
	operatorRepo repository.OperatorRepository,
	branchRepo repository.BranchRepository,
	jwtManager *utils.JWTManager,
) *AuthService {
	return &AuthService{
		operatorRepo: operatorRepo,
		branchRepo:   branchRepo,
		jwtManager:   jwtManager,
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Username string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	Operator     *entity.Operator
	AccessToken  string
	RefreshToken string
	SessionID    string
}

// Login authenticates an operator and opens a new terminal session. Each
// login gets its own session id and so its own cart.
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	operator, err := s.operatorRepo.GetByUsername(ctx, strings.TrimSpace(input.Username))
	if err != nil {
		return nil, err
	}
	if operator == nil || !operator.Active {
		return nil, apperror.ErrInvalidCredentials
	}
	if !utils.CheckPasswordHash(input.Password, operator.PasswordHash) {
		return nil, apperror.ErrInvalidCredentials
	}

	out, err := s.issue(operator, utils.NewSessionID())
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("operator logged in", "operator_id", operator.ID, "username", operator.Username)
	return out, nil
}

// Refresh exchanges a refresh token for a new pair bound to the same
// session, so the cart survives.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginOutput, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}

	operator, err := s.operatorRepo.GetByID(ctx, claims.OperatorID)
	if err != nil {
		return nil, err
	}
	if operator == nil || !operator.Active {
		return nil, apperror.ErrInvalidToken
	}
	return s.issue(operator, claims.SessionID)
}

// Me returns the operator with the assigned branch
func (s *AuthService) Me(ctx context.Context, operatorID uuid.UUID) (*entity.Operator, error) {
	operator, err := s.operatorRepo.GetByID(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	if operator == nil {
		return nil, apperror.NewNotFoundError("Operator")
	}
	if operator.BranchID != nil {
		if operator.Branch, err = s.branchRepo.GetByID(ctx, *operator.BranchID); err != nil {
			return nil, err
		}
	}
	return operator, nil
}

func (s *AuthService) issue(operator *entity.Operator, sessionID string) (*LoginOutput, error) {
	sub := utils.TokenSubject{
		OperatorID: operator.ID,
		Username:   operator.Username,
		BranchID:   operator.BranchID,
		Role:       operator.Role,
		SessionID:  sessionID,
	}
	accessToken, err := s.jwtManager.GenerateAccessToken(sub)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(sub)
	if err != nil {
		return nil, err
	}
	return &LoginOutput{
		Operator:     operator,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		SessionID:    sessionID,
	}, nil
}
