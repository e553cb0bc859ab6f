package transport

// Envelope is the wrapper shared by every API response.
type Envelope struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Error  *ErrorBody  `json:"error,omitempty"`
	Meta   interface{} `json:"meta,omitempty"`
}

// ErrorBody carries the machine-readable code next to the human message.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message interface{} `json:"message"`
}

// NewSuccess returns a success envelope.
func NewSuccess(data interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "success",
		Data:   data,
		Meta:   meta,
	}
}

// NewError returns an error envelope with optional metadata.
func NewError(code string, message interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "error",
		Error:  &ErrorBody{Code: code, Message: message},
		Meta:   meta,
	}
}
