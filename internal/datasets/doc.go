// Package datasets содержит генераторы синтетических выборок
// для задач sufficient dimension reduction.
//
// Генераторы детерминированы: одинаковый seed даёт побитово
// одинаковые X и y.
//
//	ds, err := datasets.MakeQuadratic(123)
//	if err != nil {
//	    // *InputValidationError
//	}
package datasets
