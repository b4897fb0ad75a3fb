package location

import "math"

// WGS-84 ellipsoid parameters.
const (
	wgs84A = 6378.137            // semi-major axis, km
	wgs84B = 6356.7523142        // semi-minor axis, km
	wgs84F = (wgs84A - wgs84B) / wgs84A
)

// VincentyKm is the ellipsoidal distance between two points in
// kilometers, via Vincenty's inverse formula. Falls back to the
// great-circle distance for the rare antipodal pairs where the
// iteration fails to converge.
func VincentyKm(a, b Point) float64 {
	if a.Lat == b.Lat && a.Lon == b.Lon {
		return 0
	}

	phi1 := a.Lat * math.Pi / 180
	phi2 := b.Lat * math.Pi / 180
	l := (b.Lon - a.Lon) * math.Pi / 180

	u1 := math.Atan((1 - wgs84F) * math.Tan(phi1))
	u2 := math.Atan((1 - wgs84F) * math.Tan(phi2))
	sinU1, cosU1 := math.Sincos(u1)
	sinU2, cosU2 := math.Sincos(u2)

	lambda := l
	var sinSigma, cosSigma, sigma, sinAlpha, cos2Alpha, cos2SigmaM float64

	for i := 0; i < 200; i++ {
		sinLambda, cosLambda := math.Sincos(lambda)
		sinSigma = math.Sqrt(math.Pow(cosU2*sinLambda, 2) +
			math.Pow(cosU1*sinU2-sinU1*cosU2*cosLambda, 2))
		if sinSigma == 0 {
			return 0 // coincident points
		}
		cosSigma = sinU1*sinU2 + cosU1*cosU2*cosLambda
		sigma = math.Atan2(sinSigma, cosSigma)
		sinAlpha = cosU1 * cosU2 * sinLambda / sinSigma
		cos2Alpha = 1 - sinAlpha*sinAlpha
		if cos2Alpha == 0 {
			cos2SigmaM = 0 // equatorial line
		} else {
			cos2SigmaM = cosSigma - 2*sinU1*sinU2/cos2Alpha
		}

		c := wgs84F / 16 * cos2Alpha * (4 + wgs84F*(4-3*cos2Alpha))
		prev := lambda
		lambda = l + (1-c)*wgs84F*sinAlpha*
			(sigma+c*sinSigma*(cos2SigmaM+c*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))

		if math.Abs(lambda-prev) < 1e-12 {
			uSq := cos2Alpha * (wgs84A*wgs84A - wgs84B*wgs84B) / (wgs84B * wgs84B)
			bigA := 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
			bigB := uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))
			deltaSigma := bigB * sinSigma * (cos2SigmaM + bigB/4*
				(cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)-
					bigB/6*cos2SigmaM*(-3+4*sinSigma*sinSigma)*(-3+4*cos2SigmaM*cos2SigmaM)))
			return wgs84B * bigA * (sigma - deltaSigma)
		}
	}

	// Non-convergent (near-antipodal); the spherical answer is close
	// enough there.
	return GreatCircleKm(a, b)
}
