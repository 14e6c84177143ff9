// Package engine содержит движок описания pipeline.
//
// Включает:
//   - parser.go   — разбор и валидация PipelineSpec
//   - template.go — контекст выполнения и рендеринг Go templates
//     ({{ .Steps.estimate.Outputs.beta1_hat }})
//
// Engine отвечает за понимание структуры pipeline; выполнение
// шагов — в пакете pipeline.
package engine
