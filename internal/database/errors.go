package database

import (
	"errors"

	"github.com/lib/pq"
)

// PostgreSQLのSQLSTATE
const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
)

// IsUniqueViolation はエラーが一意制約違反（重複キー）かどうかを返す。
// ラップされたエラーも判定できる。
func IsUniqueViolation(err error) bool {
	return hasCode(err, uniqueViolationCode)
}

// IsForeignKeyViolation はエラーが外部キー制約違反かどうかを返す。
// 存在しないユーザーIDを投稿者に指定した場合などに発生する。
func IsForeignKeyViolation(err error) bool {
	return hasCode(err, foreignKeyViolationCode)
}

func hasCode(err error, code string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == code
	}
	return false
}
