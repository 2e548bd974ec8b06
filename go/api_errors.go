package demoserver

import (
	"errors"

	"github.com/gin-gonic/gin"

	userapp "github.com/Apurer/go-gin-demo-server/internal/domains/users/application"
	userports "github.com/Apurer/go-gin-demo-server/internal/domains/users/ports"
	apierrors "github.com/Apurer/go-gin-demo-server/internal/shared/errors"
)

var problemResponder = apierrors.NewChainedResponder("", userProblem)

func userProblem(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, userports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail("user not found"), true
	case errors.Is(err, userapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, userports.ErrConflict):
		return apierrors.ErrConflict.WithDetail("username already taken"), true
	}
	return apierrors.ProblemDetail{}, false
}

func respondUserError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	problemResponder.RespondError(c, err)
}
