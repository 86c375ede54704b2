package main

import (
	"bytes"
	"database/sql"
	"testing"

	"github.com/vaaniprep/vaani/core/note"
	"github.com/vaaniprep/vaani/core/taxonomy"
	"github.com/vaaniprep/vaani/core/user"
	inmemdb "github.com/vaaniprep/vaani/storage/database/inmem"
)

func setup(t *testing.T) *commandLine {
	t.Helper()
	db := inmemdb.NewDB()
	return &commandLine{
		usrRepo: inmemdb.NewUserRepository(db),
		admRepo: inmemdb.NewAdminRepository(db),
		taxSvc:  taxonomy.NewService(inmemdb.NewTaxonomyRepository(db)),
		noteSvc: note.NewService(inmemdb.NewNoteRepository(db)),
	}
}

type cliTest struct {
	name    string
	args    []string // without program name
	pwd     string   // prompted password, when applicable
	wantErr error
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	var migrated bool
	migrateFunc = func(db *sql.DB) error {
		migrated = true
		return nil
	}

	if err := cli.run([]string{"admin", "migrate"}); err != nil {
		t.Fatalf("cli.run() error = %v", err)
	}
	if !migrated {
		t.Error("migrations not applied")
	}
}

func Test_commandLine_usage(t *testing.T) {
	cli := setup(t)

	tests := []cliTest{
		{name: "no command", args: []string{"admin"}, wantErr: errHelp},
		{name: "unknown command", args: []string{"admin", "lol"}, wantErr: errHelp},
		{name: "createadmin without email", args: []string{"admin", "createadmin"}, wantErr: errHelp},
		{name: "resetpassword without username", args: []string{"admin", "resetpassword"}, wantErr: errHelp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(tt.args); err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func Test_commandLine_createAdmin(t *testing.T) {
	cli := setup(t)

	tests := []cliTest{
		{name: "empty password", args: []string{"admin", "createadmin", "-email", "boss@vaani.test"}, wantErr: errHelp},
		{name: "create", args: []string{"admin", "createadmin", "-email", "Boss@vaani.test"}, pwd: "s3cret"},
	}
	for _, tt := range tests {
		readPasswordFunc = func(fd int) ([]byte, error) {
			return []byte(tt.pwd), nil
		}

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(tt.args); err != tt.wantErr {
				t.Fatalf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	// email is lowercased on the way in
	adm, err := cli.admRepo.GetAdminByEmail("boss@vaani.test")
	if err != nil {
		t.Fatalf("GetAdminByEmail() failed, %v", err)
	}
	if err := adm.CheckPassword("s3cret"); err != nil {
		t.Error("password does not verify")
	}

	t.Run("duplicate email", func(t *testing.T) {
		readPasswordFunc = func(fd int) ([]byte, error) { return []byte("s3cret"), nil }
		if err := cli.run([]string{"admin", "createadmin", "-email", "boss@vaani.test"}); err == nil {
			t.Error("expected an error for a duplicate admin email")
		}
	})
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup(t)

	usr := user.User{Name: "User", Username: "awe", Email: "awe@test.np", Role: user.RoleStudent}
	if err := usr.SetPassword("0ld#Secret"); err != nil {
		t.Fatal(err)
	}
	usr, err := cli.usrRepo.CreateUser(usr)
	if err != nil {
		t.Fatal(err)
	}

	tests := []cliTest{
		{name: "user not found", args: []string{"admin", "resetpassword", "-username", "lol"}, pwd: "lol", wantErr: user.ErrNotFound},
		{name: "reset with username", args: []string{"admin", "resetpassword", "-username", usr.Username}, pwd: "lol"},
		{name: "reset with email", args: []string{"admin", "resetpassword", "-username", usr.Email}, pwd: "lmao"},
	}
	for _, tt := range tests {
		readPasswordFunc = func(fd int) ([]byte, error) {
			return []byte(tt.pwd), nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(tt.args)
			if err == nil {
				refreshed, err := cli.usrRepo.GetUserByID(usr.ID)
				if err != nil {
					t.Fatalf("GetUserByID() failed, %v", err)
				}
				if bytes.Equal(refreshed.PasswordHash, usr.PasswordHash) {
					t.Error("failed to update new password")
				}
			} else if err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func Test_commandLine_seed(t *testing.T) {
	cli := setup(t)

	if err := cli.run([]string{"admin", "seed"}); err != nil {
		t.Fatalf("cli.run() error = %v", err)
	}

	goals, err := cli.taxSvc.QueryAllGoals()
	if err != nil {
		t.Fatal(err)
	}
	if len(goals) != 2 {
		t.Fatalf("goals = %d; want 2", len(goals))
	}
	for _, g := range goals {
		subjects, err := cli.taxSvc.QueryGoalSubjects(g.ID)
		if err != nil {
			t.Fatal(err)
		}
		if len(subjects) != 5 {
			t.Errorf("%s subjects = %d; want 5", g.Name, len(subjects))
		}
	}

	notes, err := cli.noteSvc.QueryAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(notes) != 4 {
		t.Fatalf("demo notes = %d; want 4", len(notes))
	}

	// running twice does not duplicate anything
	if err := cli.run([]string{"admin", "seed"}); err != nil {
		t.Fatalf("second cli.run() error = %v", err)
	}
	goals, _ = cli.taxSvc.QueryAllGoals()
	notes, _ = cli.noteSvc.QueryAll()
	if len(goals) != 2 || len(notes) != 4 {
		t.Errorf("re-seed duplicated data: %d goals, %d notes", len(goals), len(notes))
	}
}
