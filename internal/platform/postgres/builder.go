// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import "github.com/Masterminds/squirrel"

// Builder returns a squirrel statement builder emitting $n placeholders.
func Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Chunks splits n rows into [start, end) ranges of at most size rows.
func Chunks(n, size int) [][2]int {
	var ranges [][2]int
	for start := 0; start < n; start += size {
		ranges = append(ranges, [2]int{start, min(start+size, n)})
	}
	return ranges
}
