// Package cache keeps engine lookups that rarely change, such as the process list
// behind the process filter, in JSON files under ~/.flowadmin/cache with a TTL.
package cache
