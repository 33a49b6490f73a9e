package whatsapp

import "encoding/xml"

type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message,omitempty"`
}

// RenderTwiML wraps a reply body in Twilio's messaging response envelope.
// An empty message renders an empty <Response/>, which tells Twilio to send
// nothing.
func RenderTwiML(message string) ([]byte, error) {
	body, err := xml.Marshal(twimlResponse{Message: message})
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}
