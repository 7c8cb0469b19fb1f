// Package identitystore provides a YAML file-backed IdentityStore, a
// stand-in for the non-volatile memory the production driver contract
// abstracts over. It exists for cmd/osnpsim and for tests; a real endpoint
// deployment supplies its own IdentityStore backed by on-chip flash or
// EEPROM.
package identitystore

import (
	"os"

	"gopkg.in/yaml.v3"

	osnp "github.com/mbalistreri/osnp"
)

// document is the on-disk representation. EUI is written once at
// provisioning and never mutated by Store; everything else tracks the
// endpoint's runtime identity.
type document struct {
	EUI       osnp.EUI64 `yaml:"eui"`
	PANID     [2]byte    `yaml:"pan_id"`
	ShortAddr [2]byte    `yaml:"short_addr"`
	Channel   byte       `yaml:"channel"`
}

// Store persists an endpoint's identity tuple to a YAML file, reading it
// fresh on every Load call and rewriting it whole on every Write call —
// there is no in-memory cache, so a crash between two Write calls leaves
// whichever fields were written durable and the rest untouched, matching
// the "idempotent and atomic per field" contract spec.md §8 requires of
// the underlying storage.
type Store struct {
	path string
}

// New returns a Store backed by path. If path does not exist yet, it is
// initialized with eui and the sentinel "unassociated" values.
func New(path string, eui osnp.EUI64) (*Store, error) {
	s := &Store{path: path}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		doc := document{
			EUI:       eui,
			PANID:     [2]byte{0x00, 0x00},
			ShortAddr: [2]byte{0xFF, 0xFF},
			Channel:   0xFF,
		}
		if err := s.write(doc); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) read() (document, error) {
	var doc document
	b, err := os.ReadFile(s.path)
	if err != nil {
		return doc, err
	}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return doc, err
	}
	return doc, nil
}

func (s *Store) write(doc document) error {
	b, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o600)
}

func (s *Store) LoadEUI() (osnp.EUI64, error) {
	doc, err := s.read()
	return doc.EUI, err
}

func (s *Store) LoadPANID() ([2]byte, error) {
	doc, err := s.read()
	return doc.PANID, err
}

func (s *Store) LoadShortAddress() ([2]byte, error) {
	doc, err := s.read()
	return doc.ShortAddr, err
}

func (s *Store) LoadChannel() (byte, error) {
	doc, err := s.read()
	return doc.Channel, err
}

func (s *Store) WritePANID(id [2]byte) error {
	doc, err := s.read()
	if err != nil {
		return err
	}
	doc.PANID = id
	return s.write(doc)
}

func (s *Store) WriteShortAddress(addr [2]byte) error {
	doc, err := s.read()
	if err != nil {
		return err
	}
	doc.ShortAddr = addr
	return s.write(doc)
}

func (s *Store) WriteChannel(ch byte) error {
	doc, err := s.read()
	if err != nil {
		return err
	}
	doc.Channel = ch
	return s.write(doc)
}
