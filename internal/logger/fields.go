package logger

// FieldService tags every log line with the emitting service.
const FieldService = "service"
