// Package cli реализует командную строку save-quadratic.
//
// # Обзор
//
// Корневая команда без аргументов выполняет pipeline
// dataset → estimate → render с параметрами по умолчанию (seed 123)
// и записывает график в save_quadratic.png.
//
// Параметры собираются слоями: defaults → --config (TOML) →
// переменные SAVE_* → флаги. Флаг, явно заданный в командной строке,
// всегда побеждает.
//
// # Ключевые компоненты
//
// ## Output
//
// Форматирование вывода. Поддерживает два режима:
//   - Таблицы (text/tabwriter) — по умолчанию
//   - JSON (json.Encoder) — с флагом --json
//
// Данные выводятся в stdout, сообщения (Success/Error) — в stderr,
// логи — тоже в stderr. Это позволяет использовать pipe:
// save-quadratic --json | jq .beta1_hat
//
// ## Root command
//
// NewRootCmd принимает Deps, чтобы тесты могли подменить
// renderer и потоки вывода.
package cli
