package note

import "testing"

func Test_QueryOptions_Clean(t *testing.T) {
	tests := []struct {
		name      string
		opts      QueryOptions
		wantPage  int
		wantLimit int
	}{
		{name: "defaults", opts: QueryOptions{}, wantPage: 1, wantLimit: 10},
		{name: "negative page", opts: QueryOptions{Page: -3, Limit: 20}, wantPage: 1, wantLimit: 20},
		{name: "limit capped", opts: QueryOptions{Page: 2, Limit: 5000}, wantPage: 2, wantLimit: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Clean()
			if tt.opts.Page != tt.wantPage || tt.opts.Limit != tt.wantLimit {
				t.Errorf("Clean() = page %d limit %d; want page %d limit %d",
					tt.opts.Page, tt.opts.Limit, tt.wantPage, tt.wantLimit)
			}
		})
	}
}

func Test_QueryOptions_Matches(t *testing.T) {
	n := Note{
		Label:       LabelFormula,
		ChapterName: "Electrostatics",
		SubjectName: "Physics",
		Goals:       []string{"CEE", "IOE"},
		Cost:        CostFree,
	}

	tests := []struct {
		name string
		opts QueryOptions
		want bool
	}{
		{name: "no criteria", opts: QueryOptions{}, want: true},
		{name: "search matches chapter", opts: QueryOptions{Search: "electro"}, want: true},
		{name: "search matches subject", opts: QueryOptions{Search: "PHYS"}, want: true},
		{name: "search misses", opts: QueryOptions{Search: "optics"}, want: false},
		{name: "goal matches", opts: QueryOptions{Goal: "IOE"}, want: true},
		{name: "goal misses", opts: QueryOptions{Goal: "Lok Sewa"}, want: false},
		{name: "subject is exact", opts: QueryOptions{Subject: "Phys"}, want: false},
		{name: "formulas tab includes formulas", opts: QueryOptions{Kind: KindFormulas}, want: true},
		{name: "notes tab excludes formulas", opts: QueryOptions{Kind: KindNotes}, want: false},
		{name: "criteria AND together", opts: QueryOptions{Search: "electro", Goal: "CEE", Subject: "Physics", Kind: KindFormulas}, want: true},
		{name: "one failing criterion fails all", opts: QueryOptions{Search: "electro", Goal: "Lok Sewa"}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.opts.Matches(n); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}
