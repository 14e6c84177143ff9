// Package sdr реализует методы sufficient dimension reduction:
// SAVE (Sliced Average Variance Estimation) и SIR (Sliced Inverse Regression).
//
// # Обзор
//
// Оба метода ищут линейные комбинации признаков Xβ, через которые
// отклик y зависит от X. Общая схема:
//
//  1. Центрирование X и отбеливание через тонкое QR-разложение: Z = √n·Q.
//  2. Разбиение наблюдений на срезы по отсортированному y (Slice).
//  3. Построение ядра M по срезам (у каждого метода своё).
//  4. Собственное разложение M; направления β = (√n·R)⁻¹·v
//     в порядке убывания собственных значений.
//
// SIR использует средние по срезам и не видит симметричных зависимостей
// (например y = (Xβ)²). SAVE использует дисперсии по срезам и находит их.
//
// # Использование
//
//	save := sdr.NewSAVE(sdr.WithSlices(10), sdr.WithDirections(2))
//	XSave, err := save.FitTransform(X, y)
//	beta1 := mat.Col(nil, 0, save.Components())
//
// Все ошибки имеют тип *EstimationError и оборачивают sentinel-ошибки
// пакета (ErrShapeMismatch, ErrInsufficientDimensions, ...).
package sdr
