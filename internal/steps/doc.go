// Package steps содержит реализации типов шагов pipeline.
//
// # Обзор
//
// Steps — это исполнители конкретных типов шагов. Каждый шаг:
//   - Получает конфигурацию (уже отрендеренную через engine.RenderConfig)
//   - Берёт outputs предыдущих шагов из TemplateContext
//   - Возвращает outputs для использования в следующих шагах
//
// # Registry
//
//	registry := steps.DefaultRegistry(plotting.NewRenderer())
//	step, err := registry.Get("estimate")
//
// # Типы шагов
//
//   - dataset  (dataset.go)  — синтетическая выборка datasets.MakeQuadratic
//   - estimate (estimate.go) — SAVE/SIR, проекция X_save и направления
//   - render   (render.go)   — scatter X_save[:, 0] против y с аннотациями
//
// # Обработка ошибок
//
// Ошибки провайдеров не оборачиваются и доходят до вызывающего как есть:
// *datasets.InputValidationError, *sdr.EstimationError,
// *plotting.RenderingError. Retry нет.
package steps
