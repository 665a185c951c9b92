// Package spectral provides offline spectrum measurements used to verify
// the droplet signal chain: Welch power spectral density, log-log slope
// fitting, magnitude responses of impulse responses and ringing counts.
//
// The functions allocate and are not meant for the audio thread.
package spectral
