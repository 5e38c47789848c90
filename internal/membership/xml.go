// internal/membership/xml.go
package membership

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// membersDocument mirrors the remote's members.xml:
//
//	<members>
//	  <member><id>alice</id><role>Moderator</role></member>
//	  ...
//	</members>
type membersDocument struct {
	Members []memberElement `xml:"member"`
}

type memberElement struct {
	ID    string   `xml:"id"`
	Roles []string `xml:"role"`
}

// parseMembers decodes a members listing. A payload that is not valid XML or
// does not carry the expected shape is a fatal parse error, not an empty list.
func parseMembers(body []byte) ([]Member, error) {
	var doc membersDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("invalid members document: %w", err)
	}

	members := make([]Member, 0, len(doc.Members))
	for _, m := range doc.Members {
		username := strings.TrimSpace(m.ID)
		if username == "" {
			return nil, fmt.Errorf("invalid members document: member without id")
		}
		members = append(members, Member{Username: username, Roles: m.Roles})
	}
	return members, nil
}

// parsePolicy decodes a project info.xml. The document's first element must
// be <policy>; anything else means the remote sent bad info.
func parsePolicy(body []byte) (ProjectPolicy, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))

	// Skip to the root element.
	if _, err := nextStartElement(dec); err != nil {
		return ProjectPolicy{}, fmt.Errorf("invalid info document: %w", err)
	}

	first, err := nextStartElement(dec)
	if err != nil {
		return ProjectPolicy{}, fmt.Errorf("invalid info document: %w", err)
	}
	if first.Name.Local != "policy" {
		return ProjectPolicy{}, fmt.Errorf("invalid info document: first element is <%s>, want <policy>", first.Name.Local)
	}

	var policy string
	if err := dec.DecodeElement(&policy, &first); err != nil {
		return ProjectPolicy{}, fmt.Errorf("invalid info document: %w", err)
	}

	return ProjectPolicy{Policy: strings.TrimSpace(policy)}, nil
}

func nextStartElement(dec *xml.Decoder) (xml.StartElement, error) {
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return xml.StartElement{}, fmt.Errorf("unexpected end of document")
		}
		if err != nil {
			return xml.StartElement{}, err
		}
		if start, ok := tok.(xml.StartElement); ok {
			return start, nil
		}
	}
}
