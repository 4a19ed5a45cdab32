// Package loader mounts application features on the Fiber router.
//
// Each feature (feeds, accounts, health) implements Feature. The Manager keeps
// them in registration order and LoadAll mounts the enabled ones.
package loader
