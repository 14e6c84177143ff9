// Package plotting строит scatter-графики с аннотациями через gonum/plot.
//
// Figure описывает содержимое графика, Renderer сохраняет его в файл
// (PNG, SVG, PDF, ...) и при необходимости открывает в просмотрщике ОС.
// Все ошибки бэкенда возвращаются как *RenderingError.
package plotting
