package ir

// EngineVersion is the proof engine version.
const EngineVersion = "0.1.0"
