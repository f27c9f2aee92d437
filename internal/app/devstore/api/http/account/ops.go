package account

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) signUpOp() huma.Operation {
	return huma.Operation{
		OperationID: "auth-signup",
		Method:      http.MethodPost,
		Path:        "/auth/v1/signup",
		Summary:     "Регистрация пользователя",
		Tags:        []string{"auth"},
		Middlewares: h.public,
	}
}

func (h *Handler) tokenOp() huma.Operation {
	return huma.Operation{
		OperationID: "auth-token",
		Method:      http.MethodPost,
		Path:        "/auth/v1/token",
		Summary:     "Вход по паролю или обновление сессии",
		Tags:        []string{"auth"},
		Middlewares: h.public,
	}
}

func (h *Handler) logoutOp() huma.Operation {
	return huma.Operation{
		OperationID:   "auth-logout",
		Method:        http.MethodPost,
		Path:          "/auth/v1/logout",
		Summary:       "Выход и отзыв refresh токенов",
		Tags:          []string{"auth"},
		DefaultStatus: http.StatusNoContent,
		Security:      []map[string][]string{{"bearer": {}}},
		Middlewares:   h.private,
	}
}
