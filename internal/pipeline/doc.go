// Package pipeline выполняет PipelineSpec.
//
// Runner отвечает за:
//   - Валидацию спецификации (engine.Validate)
//   - Рендеринг конфигурации каждого шага по outputs предыдущих
//   - Последовательное однократное выполнение шагов
//   - Логи, метрики и спаны на каждый шаг
//   - Финализацию run (SUCCEEDED/FAILED)
//
// Первая ошибка шага прерывает pipeline и возвращается вызывающему
// без обёртки. Retry нет.
package pipeline
