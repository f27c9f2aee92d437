package middleware

import (
	"github.com/danielgtaylor/huma/v2"
)

// Container набирает мидлвари для очередной группы операций
type Container struct {
	huma.Middlewares
}

func NewContainer() *Container {
	return &Container{
		Middlewares: make(huma.Middlewares, 0),
	}
}

// Add добавляет мидлвари в конец цепочки. nil пропускается.
func (mc *Container) Add(middlewares ...func(ctx huma.Context, next func(huma.Context))) *Container {
	for _, m := range middlewares {
		if m != nil {
			mc.Middlewares = append(mc.Middlewares, m)
		}
	}
	return mc
}

// GetAllAndClear возвращает набранные мидлвари и очищает контейнер
func (mc *Container) GetAllAndClear() huma.Middlewares {
	result := mc.Middlewares
	mc.Middlewares = nil
	return result
}
