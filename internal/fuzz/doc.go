// Package fuzztests houses Go fuzz harnesses for the script pipeline
// (source -> lexer -> parser -> semantic checks) and the declaration loader.
// They guard against panics, hangs and broken invariants on arbitrary input.
//
// Назначение: прогонять произвольные байты через лексер, анализ файла и
// загрузчик деклараций, проверяя инварианты testkit после каждого анализа.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/lexer, internal/driver,
// internal/decl, internal/testkit.
package fuzztests
