package timezone

import (
	"fmt"
	"time"
)

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Asia/Shanghai")
	if err != nil {
		panic(err)
	}
}

// force timezone to be portal-local because the servers running
// the sync may end up anywhere, which would cause disturbances
// when deriving academic terms from <time.Time>.Year()/Month()
func Now() time.Time {
	return time.Now().In(Location)
}

type AcademicYear struct {
	StartYear int
	EndYear   int
}

func (y AcademicYear) String() string {
	return fmt.Sprintf("%d-%d", y.StartYear, y.EndYear)
}

// gets the current academic year, or if on summer break,
// the previous academic year
func GetAcademicYear(now time.Time) AcademicYear {
	year := now.Year()
	month := now.Month()

	// encompasses the fall semester
	if month >= 9 {
		return AcademicYear{
			StartYear: year,
			EndYear:   year + 1,
		}
	}

	// encompasses summer break & the spring semester
	return AcademicYear{
		StartYear: year - 1,
		EndYear:   year,
	}
}
