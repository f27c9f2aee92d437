package rest

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

const tablePath = "/rest/v1/{table}"

func (h *Handler) selectOp() huma.Operation {
	return huma.Operation{
		OperationID: "table-select",
		Method:      http.MethodGet,
		Path:        tablePath,
		Summary:     "Выборка строк таблицы",
		Tags:        []string{"tables"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) insertOp() huma.Operation {
	return huma.Operation{
		OperationID:      "table-insert",
		Method:           http.MethodPost,
		Path:             tablePath,
		Summary:          "Вставка строк",
		Tags:             []string{"tables"},
		DefaultStatus:    http.StatusCreated,
		SkipValidateBody: true,
		Security:         []map[string][]string{{"bearer": {}}},
		Middlewares:      h.middleware,
	}
}

func (h *Handler) updateOp() huma.Operation {
	return huma.Operation{
		OperationID:      "table-update",
		Method:           http.MethodPatch,
		Path:             tablePath,
		Summary:          "Изменение строк по фильтру",
		Tags:             []string{"tables"},
		SkipValidateBody: true,
		Security:         []map[string][]string{{"bearer": {}}},
		Middlewares:      h.middleware,
	}
}

func (h *Handler) deleteOp() huma.Operation {
	return huma.Operation{
		OperationID: "table-delete",
		Method:      http.MethodDelete,
		Path:        tablePath,
		Summary:     "Удаление строк по фильтру",
		Tags:        []string{"tables"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}
