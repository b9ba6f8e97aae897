// Package grid holds the directional grid: fields of elevation rings of
// azimuth slots, backed by one flat sample buffer.
//
// Every measured slot owns a storage index. Slots on rings below a field's
// start ring do not own storage; they record the index of the matching slot
// on the mirrored ring and set Alias. Per-index state (population flag and
// channel delays) lives in a slice addressed by storage index, so stages can
// update it without pointers between slots.
//
// The sample buffer is laid out channel-major: the view of storage index i,
// channel c starts at (IRCount*c + i) * IRSize and is IRSize samples long.
package grid
