package service

import "interviewprep/internal/repository"

// maxPageNumber keeps (number-1)*size far from int overflow.
const maxPageNumber = 1_000_000

// pageOf clamps a requested page and size. Missing or invalid values take
// the defaults; size is capped at max and the page number at maxPageNumber.
func pageOf(number, size, def, max int) repository.Page {
	if number < 1 {
		number = 1
	}
	if number > maxPageNumber {
		number = maxPageNumber
	}
	if size < 1 {
		size = def
	}
	if size > max {
		size = max
	}
	return repository.Page{Number: number, Size: size}
}
