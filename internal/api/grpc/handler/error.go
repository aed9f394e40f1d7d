package handler

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/aitoolmap-server/internal/messages"
	"github.com/dtroode/aitoolmap-server/internal/model"
)

func handleError(err error) error {
	var authErr *model.AuthError
	if errors.As(err, &authErr) {
		return handleSignUpError(err)
	}

	switch {
	case errors.Is(err, model.ErrToolFieldsRequired):
		return status.Error(codes.InvalidArgument, messages.ToolFieldsRequired)
	case errors.Is(err, model.ErrEmptyCategoryName):
		return status.Error(codes.InvalidArgument, messages.EmptyCategoryName)
	case errors.Is(err, model.ErrCategoryLimit):
		return status.Error(codes.FailedPrecondition, messages.CategoryLimit)
	case errors.Is(err, model.ErrSignInRequired):
		return status.Error(codes.Unauthenticated, messages.SignInRequiredForCategory)
	case errors.Is(err, model.ErrNotFound), errors.Is(err, model.ErrCategoryNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, model.ErrExportDisabled):
		return status.Error(codes.FailedPrecondition, messages.ExportDisabled)
	default:
		return status.Error(codes.Internal, "internal server error")
	}
}

func handleSignUpError(err error) error {
	var authErr *model.AuthError
	if !errors.As(err, &authErr) {
		return status.Error(codes.Internal, messages.Unexpected)
	}

	msg := messages.SignUpError(err)
	switch authErr.Code {
	case model.AuthEmailAlreadyInUse:
		return status.Error(codes.AlreadyExists, msg)
	case model.AuthWeakPassword, model.AuthInvalidEmail:
		return status.Error(codes.InvalidArgument, msg)
	default:
		return status.Error(codes.Internal, msg)
	}
}

func handleSignInError(err error) error {
	var authErr *model.AuthError
	if !errors.As(err, &authErr) {
		return status.Error(codes.Internal, messages.Unexpected)
	}
	return status.Error(codes.Unauthenticated, messages.SignInError(err))
}
