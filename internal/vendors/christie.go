package vendors

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/muurk/beamctl/internal/logging"
	"github.com/muurk/beamctl/internal/projector"
)

// Christie web-remote wire format. All traffic goes through a single
// CGI endpoint taking comma-joined colon pairs: p (packet type), c
// (controller register) and one or more v (value) fields. Writes use
// p:1 with two values, reads use p:2 with v:0.
const (
	christieControlPath = "/cgi-bin/webctrl.cgi.elf?&"
	christieControlPage = "/html/remote.html"

	christieDefaultUsername = "user"
	christieDefaultPassword = "1978"
)

// Controller registers and write values observed on the wire. Power
// state is written through one register but read back from another.
const (
	christiePowerRegister  = "4627"  // 0x1213
	christieStatusRegister = "24576" // 0x6000
	christieInputRegister  = "8192"  // 0x2000

	christiePowerOnValue  = "29"
	christiePowerOffValue = "30"
)

// christieSourceLabels maps the input register's read value to the
// label shown on the device's own web remote. An unlisted value is a
// parse failure, not a guessable input.
var christieSourceLabels = map[int]string{
	3:  "HDMI 1",
	13: "HDMI 2",
	14: "HDMI 3",
	16: "HDMI 4",
	8:  "DVI-I",
	9:  "DVI-D",
	17: "HDBaseT",
	18: "SDI",
	19: "DisplayPort",
}

// christieWrite builds a register-write command (p:1, two values).
func christieWrite(name string, category projector.Category, register, value string) projector.CommandSpec {
	return projector.CommandSpec{
		Name:     name,
		Category: category,
		Method:   http.MethodPost,
		Path:     christieControlPath,
		Params: []projector.Param{
			{Key: "p", Value: "1"},
			{Key: "c", Value: register},
			{Key: "v", Value: "2"},
			{Key: "v", Value: value},
		},
		KVJoiner:   ":",
		PairJoiner: ",",
	}
}

var christieProfile = &projector.Profile{
	ID:              ChristieID,
	DefaultUsername: christieDefaultUsername,
	DefaultPassword: christieDefaultPassword,
	ControlPage:     christieControlPage,
	Catalog: projector.MustCatalog(
		christieWrite(projector.CommandPowerOn, projector.CategoryPower,
			christiePowerRegister, christiePowerOnValue),
		christieWrite(projector.CommandPowerOff, projector.CategoryPower,
			christiePowerRegister, christiePowerOffValue),

		// Direct input selection writes the same register the source
		// probe reads, so labels and codes stay in one table's terms.
		christieWrite("HDMI 1", projector.CategorySource, christieInputRegister, "3"),
		christieWrite("HDMI 2", projector.CategorySource, christieInputRegister, "13"),
		christieWrite("DVI-D", projector.CategorySource, christieInputRegister, "9"),
		christieWrite("HDBaseT", projector.CategorySource, christieInputRegister, "17"),
		christieWrite("SDI", projector.CategorySource, christieInputRegister, "18"),
		christieWrite("DisplayPort", projector.CategorySource, christieInputRegister, "19"),
	),
	Status: christieStatus,
	Source: christieSource,
}

// christieReply is the device's JSON answer to a register read: a
// one-element array wrapping the register's value vector.
type christieReply struct {
	Val []int `json:"val"`
}

// christieRead issues a register read (p:2, v:0) and returns the value
// vector from the first reply element.
func christieRead(address, register string) ([]int, bool) {
	target := fmt.Sprintf("http://%s%sp:2,c:%s,v:0", address, christieControlPath, register)

	resp, err := probeClient.Post(target, "", nil)
	if err != nil {
		logging.Debug("register read failed",
			zap.String("device", address),
			zap.String("register", register),
			zap.Error(err),
		)
		return nil, false
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, false
	}

	var reply []christieReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		logging.Debug("register reply parse failed",
			zap.String("device", address),
			zap.Error(err),
		)
		return nil, false
	}
	if len(reply) == 0 {
		return nil, false
	}
	return reply[0].Val, true
}

// christieStatus reads the status register; only a single-element
// value vector of exactly 1 counts as on.
func christieStatus(username, password, address string) bool {
	vals, ok := christieRead(address, christieStatusRegister)
	if !ok {
		return false
	}
	return len(vals) == 1 && vals[0] == 1
}

// christieSource reads the input register and maps the code to a label.
// Codes outside the table degrade to ("", false) rather than inventing
// a name.
func christieSource(username, password, address string) (string, bool) {
	vals, ok := christieRead(address, christieInputRegister)
	if !ok || len(vals) == 0 {
		return "", false
	}
	label, ok := christieSourceLabels[vals[0]]
	return label, ok
}
