package rest

import (
	"pettrack/internal/app/devstore/tables"
)

// TableParams путь и параметры строки запроса к таблице
type TableParams struct {
	Table   string `path:"table" doc:"Table name"`
	Select  string `query:"select" doc:"Columns and embeddings, e.g. *,pet:pets(*)"`
	ID      string `query:"id" doc:"Filter on id, eq.<value>"`
	PetID   string `query:"pet_id" doc:"Filter on pet_id, eq.<value>"`
	OwnerID string `query:"owner_id" doc:"Filter on owner_id, eq.<value>"`
	Order   string `query:"order" doc:"Sort, <column>.asc or <column>.desc"`
	Limit   int    `query:"limit" minimum:"0" doc:"Maximum number of rows"`
}

type selectInput struct {
	TableParams
}

// writeInput тело разбирается в обработчике: PostgREST принимает и объект, и массив объектов
type writeInput struct {
	TableParams
	RawBody []byte
}

type deleteInput struct {
	TableParams
}

type rowsOutput struct {
	ContentRange string `header:"Content-Range"`
	Body         []tables.Row
}

// Error тело ошибки в формате PostgREST
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) GetStatus() int {
	return e.Status
}
