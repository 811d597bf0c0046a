package repository

import "errors"

// 対象がない
var ErrNotFound = errors.New("not found")

// 一意制約違反（email重複など）
var ErrDuplicate = errors.New("duplicate")
