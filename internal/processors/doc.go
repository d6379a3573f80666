// Package processors implements the ordered transformation stages of the
// translation pipeline: Building, Weather, Enclosure and Systems, plus the
// final Assembly pass.
//
// Stages run in a fixed order because later stages read ModelState values
// computed by earlier ones (the Systems stage sizes equipment from the
// floor area accumulated by the Enclosure stage). Within one run a stage
// owns the target document and ModelState exclusively; nothing here is
// shared across runs.
package processors
