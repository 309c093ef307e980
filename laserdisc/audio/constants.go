package audio

// Channels is the number of audio channels carried by a disc.
const Channels = 2

// DefaultSampleRate is the nominal rate of laserdisc digital audio.
const DefaultSampleRate = 44100
