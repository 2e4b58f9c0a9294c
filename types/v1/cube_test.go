package types

import (
	"testing"

	"github.com/questforge/cubevault/core"
)

func TestToCoreClaim(t *testing.T) {
	payload := ClaimPayload{
		QuestID:     7,
		Nonce:       3,
		Price:       "1500000000000000",
		Recipient:   "0x1111111111111111111111111111111111111111",
		UserID:      "user-42",
		CompletedAt: 1700000000,
		WalletName:  "Rainbow",
		TokenURI:    "ipfs://cube/7",
		EmbedOrigin: "https://quests.example.com",
	}
	claim, err := payload.ToCoreClaim()
	if err != nil {
		t.Fatal(err)
	}
	if claim.QuestID != 7 || claim.Nonce != 3 {
		t.Fatalf("claim: %+v", claim)
	}
	if claim.Price.String() != "1500000000000000" {
		t.Fatalf("price: %s", claim.Price)
	}
	if claim.Recipient.Hex() != "0x1111111111111111111111111111111111111111" {
		t.Fatalf("recipient: %s", claim.Recipient.Hex())
	}
}

func TestToCoreClaimEmptyPrice(t *testing.T) {
	payload := ClaimPayload{Recipient: "0x1111111111111111111111111111111111111111"}
	claim, err := payload.ToCoreClaim()
	if err != nil {
		t.Fatal(err)
	}
	if claim.Price.Sign() != 0 {
		t.Fatalf("empty price parsed as %s", claim.Price)
	}
}

func TestToCoreClaimRejectsBadInput(t *testing.T) {
	cases := []ClaimPayload{
		{Recipient: "not-an-address"},
		{Recipient: "0x1111111111111111111111111111111111111111", Price: "1.5"},
		{Recipient: "0x1111111111111111111111111111111111111111", Price: "0xff"},
		{Recipient: "0x1111111111111111111111111111111111111111", Price: "-1000"},
	}
	for i, payload := range cases {
		if _, err := payload.ToCoreClaim(); err == nil {
			t.Fatalf("case %d accepted", i)
		}
	}
}

func TestParseRole(t *testing.T) {
	for _, name := range []string{"ADMIN", "DEFAULT_ADMIN_ROLE"} {
		role, err := ParseRole(name)
		if err != nil || role != core.RoleDefaultAdmin {
			t.Fatalf("%s: %v %v", name, role, err)
		}
	}
	role, err := ParseRole("SIGNER")
	if err != nil || role != core.RoleSigner {
		t.Fatalf("SIGNER: %v %v", role, err)
	}
	role, err = ParseRole(core.RoleUpgrader.Hex())
	if err != nil || role != core.RoleUpgrader {
		t.Fatalf("hash form: %v %v", role, err)
	}
	if _, err := ParseRole("JANITOR"); err == nil {
		t.Fatal("unknown role accepted")
	}
}

func TestParseDifficultyAndQuestType(t *testing.T) {
	d, err := ParseDifficulty("beginner")
	if err != nil || d != core.DifficultyBeginner {
		t.Fatalf("beginner: %v %v", d, err)
	}
	if _, err := ParseDifficulty("impossible"); err == nil {
		t.Fatal("unknown difficulty accepted")
	}
	q, err := ParseQuestType("STREAK")
	if err != nil || q != core.QuestTypeStreak {
		t.Fatalf("streak: %v %v", q, err)
	}
	if DifficultyName(core.DifficultyExpert) != "EXPERT" {
		t.Fatalf("name: %s", DifficultyName(core.DifficultyExpert))
	}
}
