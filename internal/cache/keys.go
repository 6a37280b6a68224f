package cache

import "fmt"

const indexPagePrefix = "index:page:%d"

// IndexPageKey builds the cache key for one page of the home listing.
func IndexPageKey(page int) string {
	return fmt.Sprintf(indexPagePrefix, page)
}
