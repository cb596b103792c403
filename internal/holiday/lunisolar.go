package holiday

import (
	"math"
	"time"
)

// Lunisolar dates are computed for China Standard Time (UTC+8) from mean
// lunation and low-precision solar theory. The ΔT model limits the range.
const (
	minLunarYear = 1901
	maxLunarYear = 2099

	synodicMonth = 29.530588861
	tropicalYear = 365.2422
	j2000        = 2451545.0
	unixEpochJDN = 2440588
	chinaOffset  = 8.0 / 24
)

func sinDeg(x float64) float64 { return math.Sin(x * math.Pi / 180) }

// newMoon returns the ephemeris Julian day of lunation k, k = 0 being the
// new moon of 6 January 2000.
func newMoon(k float64) float64 {
	t := k / 1236.85
	t2, t3, t4 := t*t, t*t*t, t*t*t*t

	jde := 2451550.09766 + synodicMonth*k + 0.00015437*t2 - 0.000000150*t3 + 0.00000000073*t4
	e := 1 - 0.002516*t - 0.0000074*t2
	m := 2.5534 + 29.10535670*k - 0.0000014*t2 - 0.00000011*t3
	mp := 201.5643 + 385.81693528*k + 0.0107582*t2 + 0.00001238*t3 - 0.000000058*t4
	f := 160.7108 + 390.67050284*k - 0.0016118*t2 - 0.00000227*t3 + 0.000000011*t4
	om := 124.7746 - 1.56375588*k + 0.0020672*t2 + 0.00000215*t3

	jde += -0.40720*sinDeg(mp) +
		0.17241*e*sinDeg(m) +
		0.01608*sinDeg(2*mp) +
		0.01039*sinDeg(2*f) +
		0.00739*e*sinDeg(mp-m) -
		0.00514*e*sinDeg(mp+m) +
		0.00208*e*e*sinDeg(2*m) -
		0.00111*sinDeg(mp-2*f) -
		0.00057*sinDeg(mp+2*f) +
		0.00056*e*sinDeg(2*mp+m) -
		0.00042*sinDeg(3*mp) +
		0.00042*e*sinDeg(m+2*f) +
		0.00038*e*sinDeg(m-2*f) -
		0.00024*e*sinDeg(2*mp-m) -
		0.00017*sinDeg(om) -
		0.00007*sinDeg(mp+2*m) +
		0.00004*sinDeg(2*mp-2*f) +
		0.00004*sinDeg(3*m) +
		0.00003*sinDeg(mp+m-2*f) +
		0.00003*sinDeg(2*mp+2*f) -
		0.00003*sinDeg(mp+m+2*f) +
		0.00003*sinDeg(mp-m+2*f) -
		0.00002*sinDeg(mp-m-2*f) -
		0.00002*sinDeg(3*mp+m) +
		0.00002*sinDeg(4*mp)

	planetary := [14][2]float64{
		{299.77 + 0.107408*k - 0.009173*t2, 0.000325},
		{251.88 + 0.016321*k, 0.000165},
		{251.83 + 26.651886*k, 0.000164},
		{349.42 + 36.412478*k, 0.000126},
		{84.66 + 18.206239*k, 0.000110},
		{141.74 + 53.303771*k, 0.000062},
		{207.14 + 2.453732*k, 0.000060},
		{154.84 + 7.306860*k, 0.000056},
		{34.52 + 27.261239*k, 0.000047},
		{207.19 + 0.121824*k, 0.000042},
		{291.34 + 1.844379*k, 0.000040},
		{161.72 + 24.198154*k, 0.000037},
		{239.56 + 25.513099*k, 0.000035},
		{331.55 + 3.592518*k, 0.000023},
	}
	for _, p := range planetary {
		jde += p[1] * sinDeg(p[0])
	}
	return jde
}

// deltaT returns TT minus UT in seconds for a decimal year in 1900..2150.
func deltaT(y float64) float64 {
	switch {
	case y < 1920:
		t := y - 1900
		return -2.79 + 1.494119*t - 0.0598939*t*t + 0.0061966*t*t*t - 0.000197*t*t*t*t
	case y < 1941:
		t := y - 1920
		return 21.20 + 0.84493*t - 0.076100*t*t + 0.0020936*t*t*t
	case y < 1961:
		t := y - 1950
		return 29.07 + 0.407*t - t*t/233 + t*t*t/2547
	case y < 1986:
		t := y - 1975
		return 45.45 + 1.067*t - t*t/260 - t*t*t/718
	case y < 2005:
		t := y - 2000
		return 63.86 + 0.3345*t - 0.060374*t*t + 0.0017275*t*t*t + 0.000651814*t*t*t*t + 0.00002373599*t*t*t*t*t
	case y < 2050:
		t := y - 2000
		return 62.92 + 0.32217*t + 0.005589*t*t
	default:
		u := (y - 1820) / 100
		return -20 + 32*u*u - 0.5628*(2150-y)
	}
}

func deltaTDays(jde float64) float64 {
	return deltaT(2000+(jde-j2000)/365.25) / 86400
}

// chinaDay returns the Julian day number of the civil date in China at jde.
func chinaDay(jde float64) int {
	return int(math.Floor(jde - deltaTDays(jde) + 0.5 + chinaOffset))
}

// chinaMidnight returns the ephemeris Julian day at which day jdn begins in China.
func chinaMidnight(jdn int) float64 {
	jd := float64(jdn) - 0.5 - chinaOffset
	return jd + deltaTDays(jd)
}

func dateOfDay(jdn int) time.Time {
	return time.Unix(int64(jdn-unixEpochJDN)*86400, 0).UTC()
}

// sunLongitude returns the apparent geocentric longitude of the Sun in degrees.
func sunLongitude(jde float64) float64 {
	t := (jde - j2000) / 36525
	l0 := 280.46646 + 36000.76983*t + 0.0003032*t*t
	m := 357.52911 + 35999.05029*t - 0.0001537*t*t
	c := (1.914602-0.004817*t-0.000014*t*t)*sinDeg(m) +
		(0.019993-0.000101*t)*sinDeg(2*m) +
		0.000289*sinDeg(3*m)
	om := 125.04 - 1934.136*t
	return normDeg(l0 + c - 0.00569 - 0.00478*sinDeg(om))
}

func normDeg(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}

// solarTerm refines guess to the moment the Sun reaches longitude.
func solarTerm(guess, longitude float64) float64 {
	jd := guess
	for range 50 {
		diff := normDeg(longitude - sunLongitude(jd))
		if diff > 180 {
			diff -= 360
		}
		step := diff * tropicalYear / 360
		jd += step
		if math.Abs(step) < 1e-7 {
			break
		}
	}
	return jd
}

// solarTermDay returns the day in China on which the Sun reaches
// longitude during Gregorian year.
func solarTermDay(year int, longitude float64) int {
	guess := 2451623.80984 + tropicalYear*float64(year-2000) + normDeg(longitude)/360*tropicalYear
	return chinaDay(solarTerm(guess, longitude))
}

func newMoonDay(k int) int { return chinaDay(newMoon(float64(k))) }

// lunationOn returns the lunation whose first day is on or before jdn.
func lunationOn(jdn int) int {
	k := int(math.Floor((float64(jdn) - 2451550.09766) / synodicMonth))
	for newMoonDay(k+1) <= jdn {
		k++
	}
	for newMoonDay(k) > jdn {
		k--
	}
	return k
}

// hasPrincipalTerm reports whether lunation k contains a solar longitude
// that is a multiple of 30 degrees.
func hasPrincipalTerm(k int) bool {
	start, end := newMoonDay(k), newMoonDay(k+1)
	jde := chinaMidnight(start)
	lon := sunLongitude(jde)
	target := normDeg((math.Floor(lon/30) + 1) * 30)
	term := solarTerm(jde+normDeg(target-lon)/360*tropicalYear, target)
	return chinaDay(term) < end
}

type lunarMonth struct {
	lunation int
	number   int
	leap     bool
}

// sui lists the months between the winter solstices closing year-1 and
// year, starting with month 11 of the previous lunar year. A sui of 13
// months has a leap month: the first one without a principal term.
func sui(year int) []lunarMonth {
	first := lunationOn(solarTermDay(year-1, 270))
	last := lunationOn(solarTermDay(year, 270))
	hasLeap := last-first == 13

	months := make([]lunarMonth, 0, 13)
	number := 11
	for k := first; k < last; k++ {
		switch {
		case k == first:
		case hasLeap && !hasPrincipalTerm(k):
			hasLeap = false
			months = append(months, lunarMonth{lunation: k, number: number, leap: true})
			continue
		default:
			number = number%12 + 1
		}
		months = append(months, lunarMonth{lunation: k, number: number})
	}
	return months
}

// lunarDate returns the Gregorian date of day d of the non-leap lunar
// month of lunar year year.
func lunarDate(year, month, d int) (time.Time, bool) {
	if year < minLunarYear || year > maxLunarYear || month < 1 || month > 12 || d < 1 || d > 30 {
		return time.Time{}, false
	}
	span := sui(year)
	if month > 10 {
		// months 11 and 12 open the following sui
		span = sui(year + 1)
	}
	for _, m := range span {
		if m.number == month && !m.leap {
			return dateOfDay(newMoonDay(m.lunation) + d - 1), true
		}
	}
	return time.Time{}, false
}

// solarTermDate returns the date in China of the given solar longitude in year.
func solarTermDate(year int, longitude float64) (time.Time, bool) {
	if year < minLunarYear || year > maxLunarYear {
		return time.Time{}, false
	}
	return dateOfDay(solarTermDay(year, longitude)), true
}
